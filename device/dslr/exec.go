package dslr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// execCommander runs programs with os/exec.
type execCommander struct{}

func (execCommander) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (execCommander) stream(name string, args ...string) (io.ReadCloser, error) {
	cmd := exec.Command(name, args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("could not pipe command output: %w", err)
	}
	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start %s: %w", name, err)
	}
	return &process{ReadCloser: out, cmd: cmd}, nil
}

// process is the standard output of a running program.
type process struct {
	io.ReadCloser
	cmd *exec.Cmd
}

// Close kills the program and waits for it to exit. The exit status of a
// killed program is not an error.
func (p *process) Close() error {
	err := p.cmd.Process.Kill()
	if err != nil {
		return fmt.Errorf("could not kill %s: %w", p.cmd.Path, err)
	}
	p.cmd.Wait()
	return nil
}
