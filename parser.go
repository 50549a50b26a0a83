package asn1c_go

import (
	"bufio"
	"fmt"
	"os"
)

// Parse reads filename line by line and reports it back to the
// caller. The schema compiler this would front-end (turning ASN.1
// module text into generated Go types) is outside this module's scope
// (spec.md's Non-goals name the compiler explicitly); what remains
// here is the file-reading scaffold a compiler's main would build on,
// kept from the original CLI stub.
func Parse(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if nil != err {
		return nil, err
	}
	defer file.Close()
	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		fmt.Println(scanner.Text())
	}
	return lines, scanner.Err()
}
