package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-mdview/internal/dataurl"
	"github.com/alnah/go-mdview/internal/fileutil"
)

// defaultEncodeMIME is the media type of encoded Markdown.
const defaultEncodeMIME = "text/markdown"

// runEncode prints a file (or stdin) as a base64 data URL, ready to be used
// as an attachment URL.
func runEncode(args []string, env *Environment) error {
	flags, positional, err := parseEncodeFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printEncodeUsage(env.Stdout)
			return nil
		}
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: encode takes one input, got %d", ErrInvalidFlags, len(positional))
	}

	input := stdinArg
	if len(positional) == 1 {
		input = positional[0]
	}

	var data []byte
	if input == stdinArg {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(input) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadInput, input, err)
	}

	out := dataurl.Encode(flags.mime, data) + "\n"
	if flags.output == "" || flags.output == stdinArg {
		if _, err := io.WriteString(env.Stdout, out); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(flags.output, []byte(out), filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, flags.output, err)
	}
	return nil
}
