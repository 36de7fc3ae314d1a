package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/mdbatch/engine"
)

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/out/report_md/report.md", OutputPath("/docs/report.pdf", "/out/report_md"))
	assert.Equal(t, "/out/notes.md", OutputPath("/docs/notes", "/out"))
}

func TestParseCounters(t *testing.T) {
	pages, images := parseCounters("converted ok\npages=42 images=7\n")
	assert.Equal(t, 42, pages)
	assert.Equal(t, 7, images)

	pages, images = parseCounters("no counters reported")
	assert.Equal(t, 0, pages)
	assert.Equal(t, 0, images)
}

func TestCommandLine(t *testing.T) {
	service := New("pdf2md", []string{"--quiet"}, nil)
	request := &engine.Request{
		SourcePath: "/docs/annual report.pdf",
		OutputDir:  "/out/report_md",
		Options:    engine.Options{OCR: false, DPI: 300},
	}
	command := service.commandLine(request)
	assert.Equal(t, "pdf2md --quiet '/docs/annual report.pdf' --output /out/report_md --dpi 300 --no-ocr", command)
}
