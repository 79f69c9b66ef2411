// Package elm runs the Elm compiler as a subprocess.
package elm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// logIndent prefixes every line of a failed compiler log.
const logIndent = ">   "

// Compiler implements ports.Compiler by spawning `elm make`.
type Compiler struct {
	logger ports.Logger
	now    func() time.Time
	seq    atomic.Uint64
}

// NewCompiler creates a new Compiler.
func NewCompiler(logger ports.Logger) *Compiler {
	return &Compiler{
		logger: logger,
		now:    time.Now,
	}
}

// Compile runs `elm make <rel> --output <tmp> [--optimize]` from the source root
// and returns the compiled JavaScript. Temporary output and log files are
// removed before it returns.
func (c *Compiler) Compile(ctx context.Context, req domain.CompileRequest) (string, error) {
	if !exists(req.Manifest) {
		return "", &domain.SetupError{Kind: domain.ErrMissingManifest, Path: req.Manifest}
	}
	if !exists(req.Executable) {
		return "", &domain.SetupError{Kind: domain.ErrMissingExecutable, Path: req.Executable}
	}

	rel, err := domain.RelativeSource(req.SourceDir, req.File)
	if err != nil {
		return "", err
	}
	name, err := domain.ModuleNameFor(req.SourceDir, req.File)
	if err != nil {
		return "", err
	}

	stamp := c.stamp()
	outputPath := filepath.Join(req.SourceDir, fmt.Sprintf("%s-%s.js", name, stamp))
	logPath := filepath.Join(req.SourceDir, fmt.Sprintf("%s-%s.log", name, stamp))
	defer removeQuietly(outputPath)
	defer removeQuietly(logPath)

	args := []string{"make", filepath.ToSlash(rel), "--output", outputPath}
	if req.Optimize {
		args = append(args, "--optimize")
	}

	c.logger.Debug(fmt.Sprintf("compile %s: module=%s rel=%s output=%s optimize=%t",
		req.File, name, rel, outputPath, req.Optimize))

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.PrivateFilePerm) //nolint:gosec // path derived from the source root
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTempFileFailed.Error()), "path", logPath)
	}

	cmd := exec.CommandContext(ctx, req.Executable, args...) //nolint:gosec // executable comes from project options
	cmd.Dir = req.SourceDir
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return "", &domain.SpawnError{Err: err}
	}

	waitErr := cmd.Wait()
	_ = logFile.Close()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return "", zerr.Wrap(waitErr, domain.ErrCompilationFailed.Error())
		}
		log, err := os.ReadFile(logPath) //nolint:gosec // path derived from the source root
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrTempFileFailed.Error()), "path", logPath)
		}
		return "", &domain.CompileError{ExitCode: exitErr.ExitCode(), Log: prettify(string(log))}
	}

	js, err := os.ReadFile(outputPath) //nolint:gosec // path derived from the source root
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTempFileFailed.Error()), "path", outputPath)
	}
	return string(js), nil
}

// stamp returns a suffix that is unique for every invocation in this process.
func (c *Compiler) stamp() string {
	return fmt.Sprintf("%d-%d", c.now().UnixMilli(), c.seq.Add(1))
}

// prettify trims the log and indents every line.
func prettify(log string) string {
	lines := strings.Split(strings.TrimSpace(log), "\n")
	for i, line := range lines {
		lines[i] = logIndent + line
	}
	return strings.Join(lines, "\n")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
