package wrapper

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// Suffix is appended to an executable path to derive its wrapper path.
	Suffix = ".wrapper"

	// AppPathVariable is the runtime variable pointing at the installed package.
	AppPathVariable = "SNAP_APP_PATH"

	// unsafeChars would break out of the double-quoted exec target.
	unsafeChars = "\"$`\\\n\r"
)

// ErrInvalidExecPath is returned for executable paths no wrapper can be derived from.
var ErrInvalidExecPath = errors.New("invalid executable path")

// Render returns the launcher script for relExecPath.
func Render(relExecPath string) string {
	return "#!/bin/sh\n" +
		"\n" +
		"exec \"$" + AppPathVariable + "/" + relExecPath + "\" $*\n"
}

// PathFor derives the wrapper path of relExecPath, both relative to the package root.
func PathFor(relExecPath string) (string, error) {
	if err := checkExecPath(relExecPath); err != nil {
		return "", err
	}

	return path.Clean(relExecPath) + Suffix, nil
}

func checkExecPath(relExecPath string) error {
	switch cleaned := path.Clean(relExecPath); {
	case relExecPath == "":
		return fmt.Errorf("%w: empty path", ErrInvalidExecPath)
	case path.IsAbs(relExecPath):
		return fmt.Errorf("%w: %q is absolute", ErrInvalidExecPath, relExecPath)
	case cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../"):
		return fmt.Errorf("%w: %q leaves the package root", ErrInvalidExecPath, relExecPath)
	case strings.ContainsAny(relExecPath, unsafeChars):
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrInvalidExecPath, relExecPath)
	}

	return nil
}

// validate parses the script as POSIX shell and checks it is the single exec statement Render produces.
func validate(name, script string) error {
	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("%w: script syntax error: %w", ErrInvalidExecPath, err)
	}

	if len(file.Stmts) != 1 {
		return fmt.Errorf("%w: expected one statement, got %d", ErrInvalidExecPath, len(file.Stmts))
	}

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) != 3 || call.Args[0].Lit() != "exec" {
		return fmt.Errorf("%w: script is not a single exec call", ErrInvalidExecPath)
	}

	return nil
}
