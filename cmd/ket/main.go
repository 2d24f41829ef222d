// Package main provides the ket quantum emulator CLI.
package main

import (
	"fmt"
	"math/cmplx"
	"os"

	"github.com/ket-ml/ket/backend/cpu"
	"github.com/ket-ml/ket/circuit"
	"github.com/ket-ml/ket/gates"
	"github.com/ket-ml/ket/observable"
	"github.com/ket-ml/ket/state"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("ket quantum emulator %s\n", version)
			return
		case "bell":
			if err := runBell(); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("ket - Quantum Circuit Emulation for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  bell       Prepare a Bell pair and print its amplitudes")
}

func runBell() error {
	b := cpu.New()
	c, err := circuit.New(2, gates.H(0), gates.CNOT(0, 1))
	if err != nil {
		return err
	}
	st, err := state.Zero(2)
	if err != nil {
		return err
	}
	out, err := c.Apply(b, st, nil)
	if err != nil {
		return err
	}

	fmt.Println("Bell pair (|00> + |11>) / sqrt(2):")
	for i := 0; i < 4; i++ {
		amp := out.Amplitude(i, 0)
		fmt.Printf("  |%02b>  amplitude %+.4f%+.4fi  probability %.4f\n",
			i, real(amp), imag(amp), cmplx.Abs(amp)*cmplx.Abs(amp))
	}

	zz, err := observable.ZZ(0, 1).Expectation(b, out, nil)
	if err != nil {
		return err
	}
	fmt.Printf("<Z0 Z1> = %.4f\n", zz[0])
	return nil
}
