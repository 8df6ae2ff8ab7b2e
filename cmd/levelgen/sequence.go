package main

import (
	"fmt"
	"strconv"
	"strings"

	"voxelclimb/internal/sequence"
)

// parseCodes reads a comma separated list of move codes such as "3,3,7".
func parseCodes(raw string) ([]sequence.Code, error) {
	fields := splitNonEmpty(raw, ",")
	codes := make([]sequence.Code, 0, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		codes = append(codes, sequence.Code(n))
	}
	return codes, nil
}

// parseTriples reads semicolon separated steps such as "1,0,1;0,-1,0".
func parseTriples(raw string) ([][3]int, error) {
	steps := splitNonEmpty(raw, ";")
	triples := make([][3]int, 0, len(steps))
	for i, step := range steps {
		parts := strings.Split(step, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("step %d: want dx,dy,dz, got %q", i, step)
		}
		var t [3]int
		for j, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			t[j] = n
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func splitNonEmpty(raw, sep string) []string {
	var out []string
	for _, f := range strings.Split(raw, sep) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
