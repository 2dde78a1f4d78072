/*
Package domain contains the core data model of the brainloop interpreter.

It defines the command set, the program tree and the error taxonomy shared by
the compiler, the runtime and every host adapter. This package is kept pure and
free of I/O.

# Key Entities

  - Command: one of the eight recognised source characters.
  - Node: a Leaf (single command) or a Loop (body of one matched bracket pair).
  - Program: the implicit top-level block, an ordered sequence of Nodes.
  - EOFPolicy: what an input command does once the input is exhausted.
  - BracketMismatchError / IOError: the only failures a program can produce.
*/
package domain
