package main

import (
	"fmt"
	"os"
)

// labelName is the descriptive name given to the predicted column in
// serialized models. The native columnar format carries no feature
// names for the label, so the CLI gives it a fixed one.
const labelName = "label"

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %v", path, err)
	}
	return f, nil
}

func openOutput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %v", path, err)
	}
	return f, nil
}
