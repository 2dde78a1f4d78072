/*
Package runner hosts brainloop programs: it connects a compiled program to
real byte streams and applies the guards that remote surfaces need.

# Key Components

  - Runner: runs a program against an input reader and output writer (stdin/stdout by default).
  - InterruptibleReader: stops feeding input once the run's context is cancelled.
  - CheckRequest: size limits for sources and inputs submitted over HTTP or MCP.

# Usage

	eng, _ := brainloop.New()
	r := runner.NewRunner(runner.WithLogger(logger))

	if _, err := r.Run(ctx, eng, source); err != nil {
		log.Fatal(err)
	}
*/
package runner
