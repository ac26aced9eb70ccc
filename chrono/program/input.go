package program

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/colorfulnotion/chronospatial/chrono/chronotypes"
	"github.com/colorfulnotion/chronospatial/chronoerrors"
)

// Input is a puzzle description: the initial registers and the program bytes.
type Input struct {
	Registers chronotypes.Registers
	Code      []byte
}

var (
	registerLine = regexp.MustCompile(`^Register ([ABC]):\s*(\d+)$`)
	programLine  = regexp.MustCompile(`^Program:\s*([0-9,\s]*)$`)
)

// ParseInput reads
//
//	Register A: 729
//	Register B: 0
//	Register C: 0
//
//	Program: 0,1,5,4,3,0
//
// Register B and C lines are optional and default to zero.
func ParseInput(r io.Reader) (*Input, error) {
	in := &Input{}
	seenA, seenProgram := false, false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := registerLine.FindStringSubmatch(line); m != nil {
			v, err := strconv.ParseUint(m[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: register %s: %v: %w", lineNo, m[1], err, chronoerrors.ErrPMalformedInput)
			}
			reg := strings.Index("ABC", m[1])
			in.Registers[reg] = v
			if reg == chronotypes.RegA {
				seenA = true
			}
			continue
		}
		if m := programLine.FindStringSubmatch(line); m != nil {
			code, err := parseCode(m[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			in.Code = code
			seenProgram = true
			continue
		}
		return nil, fmt.Errorf("line %d: unexpected %q: %w", lineNo, line, chronoerrors.ErrPMalformedInput)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !seenA || !seenProgram {
		return nil, fmt.Errorf("missing register A or program: %w", chronoerrors.ErrPMalformedInput)
	}
	return in, nil
}

// ParseFile opens path and parses it with ParseInput.
func ParseFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	in, err := ParseInput(f)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return in, nil
}

func parseCode(list string) ([]byte, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, chronoerrors.ErrPEmptyProgram
	}
	fields := strings.Split(list, ",")
	code := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("program value %q: %w", f, chronoerrors.ErrPMalformedInput)
		}
		code = append(code, byte(v))
	}
	return code, nil
}
