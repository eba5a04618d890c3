//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleExam = `期末复习卷
1. 下列说法正确的是
【答案】B
2、简述光合作用的过程。
3【答案】略
`

// Sample writes a small exam to inputs/ and converts it with both deck styles.
func Sample() error {
	mg.Deps(Init, Build)

	input := filepath.Join("inputs", "sample.txt")
	if err := os.WriteFile(input, []byte(sampleExam), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", input, err)
	}

	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "segment", input); err != nil {
		return err
	}
	if err := sh.RunV(bin, "convert", "--output-dir", "decks", input); err != nil {
		return err
	}
	return sh.RunV(bin, "convert", "--style", "plain", "-o", filepath.Join("decks", "sample-plain.pptx"), input)
}
