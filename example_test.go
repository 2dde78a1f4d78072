package brainloop_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aretw0/brainloop"
	"github.com/aretw0/brainloop/pkg/domain"
)

func ExampleEngine_Execute() {
	eng, err := brainloop.New()
	if err != nil {
		log.Fatal(err)
	}

	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	if _, err := eng.Execute(context.Background(), src, nil, os.Stdout); err != nil {
		log.Fatal(err)
	}
	// Output: Hello World!
}

func ExampleEngine_Run_echo() {
	eng, err := brainloop.New(brainloop.WithEOFPolicy(domain.EOFSetZero))
	if err != nil {
		log.Fatal(err)
	}

	prog, err := eng.Compile(context.Background(), ",[.,]")
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Run(context.Background(), prog, strings.NewReader("echo"), os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\n%d bytes\n", res.OutputBytes)
	// Output:
	// echo
	// 4 bytes
}

func ExampleEngine_Compile_mismatch() {
	eng, _ := brainloop.New()

	_, err := eng.Compile(context.Background(), "+[\n-]]")
	var mm *domain.BracketMismatchError
	if errors.As(err, &mm) {
		fmt.Printf("%s at line %d, column %d\n", mm.Kind, mm.Line, mm.Column)
	}
	// Output: unexpected_close at line 2, column 3
}
