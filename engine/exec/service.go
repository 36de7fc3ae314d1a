// Package exec adapts an external converter command to the engine contract.
// The command is executed on the local host through a shared shell session;
// a non-zero exit status is reported as an engine failure on the job, never
// as a scheduler failure.
package exec

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"

	"github.com/viant/mdbatch/engine"
	"github.com/viant/mdbatch/model/types"
)

// DefaultTimeout bounds a single conversion when the request carries none.
const DefaultTimeout = 5 * time.Minute

// Service runs a configured converter command per conversion request.
type Service struct {
	command string
	args    []string
	env     map[string]string
	fs      afs.Service

	mux     sync.Mutex
	session *gosh.Service
}

// New creates an exec-backed engine for the given converter command.
func New(command string, args []string, env map[string]string) *Service {
	return &Service{command: command, args: args, env: env, fs: afs.New()}
}

// Convert implements engine.Service by shelling out to the converter.
func (s *Service) Convert(ctx context.Context, request *engine.Request) (*engine.Response, error) {
	session, err := s.getSession(ctx)
	if err != nil {
		return nil, types.NewEngineError(err, "failed to open converter session")
	}

	timeout := request.Options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	started := time.Now()
	command := s.commandLine(request)
	stdout, status, err := session.Run(ctx, command, runner.WithTimeout(int(timeout.Milliseconds())))
	elapsed := time.Since(started)
	if err != nil {
		return nil, types.NewEngineError(err, "converter %s failed", s.command)
	}
	if status != 0 {
		return nil, types.NewEngineError(fmt.Errorf("exit status %d: %s", status, strings.TrimSpace(stdout)), "converter %s failed for %s", s.command, request.SourcePath)
	}

	outputPath := OutputPath(request.SourcePath, request.OutputDir)
	exists, err := s.fs.Exists(ctx, outputPath)
	if err != nil {
		return nil, types.NewIOError(err, "failed to check converter output %s", outputPath)
	}
	if !exists {
		return nil, types.NewEngineError(nil, "converter %s produced no output at %s", s.command, outputPath)
	}

	response := &engine.Response{OutputPath: outputPath, Duration: elapsed}
	response.Pages, response.Images = parseCounters(stdout)
	return response, nil
}

// commandLine assembles the converter invocation for a request.
func (s *Service) commandLine(request *engine.Request) string {
	parts := []string{s.command}
	parts = append(parts, s.args...)
	parts = append(parts, quote(request.SourcePath), "--output", quote(request.OutputDir))
	if request.Options.DPI > 0 {
		parts = append(parts, "--dpi", strconv.Itoa(request.Options.DPI))
	}
	if !request.Options.OCR {
		parts = append(parts, "--no-ocr")
	}
	return strings.Join(parts, " ")
}

// getSession lazily opens the shared local shell session.
func (s *Service) getSession(ctx context.Context) (*gosh.Service, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.session != nil {
		return s.session, nil
	}
	var options []runner.Option
	if len(s.env) > 0 {
		options = append(options, runner.WithEnvironment(s.env))
	}
	session, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, err
	}
	s.session = session
	return s.session, nil
}

// Close releases the shell session.
func (s *Service) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}

// OutputPath returns the markup location the converter contract promises for
// a source document: <outputDir>/<stem>.md.
func OutputPath(sourcePath, outputDir string) string {
	name := path.Base(sourcePath)
	if ext := path.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return url.Join(outputDir, name+".md")
}

// parseCounters extracts "pages=N" and "images=N" tokens from converter
// stdout; absent counters stay zero.
func parseCounters(stdout string) (pages, images int) {
	for _, field := range strings.Fields(stdout) {
		switch {
		case strings.HasPrefix(field, "pages="):
			pages, _ = strconv.Atoi(strings.TrimPrefix(field, "pages="))
		case strings.HasPrefix(field, "images="):
			images, _ = strconv.Atoi(strings.TrimPrefix(field, "images="))
		}
	}
	return pages, images
}

func quote(value string) string {
	if strings.ContainsAny(value, " \t") {
		return "'" + value + "'"
	}
	return value
}
