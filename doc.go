/*
Package brainloop is an interpreter for the eight-command esoteric language
built around a wrap-around memory tape and bracket-delimited loops.

Source text goes through three stages: the lexer maps the eight command
characters to commands and drops everything else as commentary; the
structurer turns the flat command sequence into a tree with one Loop node per
matched bracket pair; the executor walks that tree against a tape of 256
uint8 cells. Cell and pointer arithmetic wrap, so once a program compiles the
only possible runtime failures come from the input and output streams.

# Usage

	eng, err := brainloop.New(brainloop.WithEOFPolicy(domain.EOFSetZero))
	if err != nil {
		log.Fatal(err)
	}

	prog, err := eng.Compile(ctx, ",[.,]")
	if err != nil {
		// *domain.BracketMismatchError
		log.Fatal(err)
	}

	if _, err := eng.Run(ctx, prog, os.Stdin, os.Stdout); err != nil {
		// *domain.IOError, domain.ErrStepLimitExceeded or ctx.Err()
		log.Fatal(err)
	}

# End of input

By default an input command that finds no more bytes leaves the current cell
unchanged and execution continues. WithEOFPolicy selects set-zero or fail instead.
*/
package brainloop
