package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/mach32/cpu"
	"github.com/ezrec/mach32/emulator"
)

func main() {
	var compile string
	var input string
	var output string
	var maxSteps int
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".m32 file to assemble")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.IntVar(&maxSteps, "x", 1000000, "Maximum steps to execute")
	flag.BoolVar(&dump, "d", false, "Dump core state on exit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	prog := &cpu.Program{Vectors: cpu.NoVectors()}

	// Assemble a new image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if input == "-" {
		emu.Console.In = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Console.In = inf
	}

	if output == "-" {
		emu.Console.Out = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Console.Out = ouf
	}

	err := emu.LoadProgram(prog)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	res := emu.Run(maxSteps)
	switch res.Reason {
	case cpu.RUN_FAULT:
		log.Fatalf("%v: %v", compile, res.Err)
	case cpu.RUN_BUDGET:
		log.Fatalf("%v: still running after %v steps", compile, res.Steps)
	}

	if dump {
		fmt.Fprintf(os.Stderr, "%v steps\n%v", res.Steps, emu.Cpu.String())
	}
}
