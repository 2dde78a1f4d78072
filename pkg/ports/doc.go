/*
Package ports defines the interfaces that decouple brainloop hosts from
concrete engines and storage backends.

# Key Interfaces

  - Interpreter: compile and run programs (implemented by brainloop.Engine).
  - ProgramStore: persist named program sources (memory, file and Redis adapters).
*/
package ports
