package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/thebagchi/asn1c-go"
	"github.com/thebagchi/asn1c-go/lib/per"
)

// main parses the given file (the input an ASN.1 schema compiler
// would consume — that compiler itself is out of this module's scope)
// and then exercises the codec engine end to end against a fixed
// demonstration value, reporting the encoded bytes and the
// decoded-back value. This stands in for the code a real compiler
// would generate per type, proving the engine wires together.
func main() {
	var (
		filename = flag.String("file", "", "Abstract Syntax Notation 1 file")
	)
	flag.Parse()
	if len(*filename) == 0 {
		fmt.Println("Error: ", "input asn1 file required ...")
		os.Exit(1)
	}
	if _, err := asn1c_go.Parse(*filename); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
	runSmokeTest()
}

// runSmokeTest encodes and decodes a small constrained-integer /
// boolean / octet-string sequence through lib/per, the way a
// generated T_encode/T_decode pair would for a concrete schema type.
func runSmokeTest() {
	buf := make([]byte, 64)
	enc := per.NewEncoder(buf, false)

	present := []bool{true, true, true}
	if err := enc.EncodeSequencePreamble(present); err != nil {
		fmt.Println("encode preamble:", err)
		os.Exit(1)
	}
	if err := enc.EncodeConstrainedWholeNumber(0, 100, 42); err != nil {
		fmt.Println("encode field a:", err)
		os.Exit(1)
	}
	if err := enc.EncodeBoolean(true); err != nil {
		fmt.Println("encode field b:", err)
		os.Exit(1)
	}
	if err := enc.EncodeOctetStringInternal(0, 16, []byte("asn1c-go")); err != nil {
		fmt.Println("encode field c:", err)
		os.Exit(1)
	}

	wire := enc.Bytes()
	fmt.Printf("encoded % x (%d bytes)\n", wire, len(wire))

	dec := per.NewDecoder(wire, false)
	gotPresent, err := dec.DecodeSequencePreamble(len(present))
	if err != nil {
		fmt.Println("decode preamble:", err)
		os.Exit(1)
	}
	a, err := dec.DecodeConstrainedWholeNumber(0, 100)
	if err != nil {
		fmt.Println("decode field a:", err)
		os.Exit(1)
	}
	b, err := dec.DecodeBoolean()
	if err != nil {
		fmt.Println("decode field b:", err)
		os.Exit(1)
	}
	c, err := dec.DecodeOctetStringInternal(0, 16)
	if err != nil {
		fmt.Println("decode field c:", err)
		os.Exit(1)
	}
	fmt.Printf("decoded present=%v a=%d b=%v c=%q\n", gotPresent, a, b, c)
}
