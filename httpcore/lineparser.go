package httpcore

import (
	"bytes"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// lineParser accumulates bytes delivered across arbitrarily many reads
// and dispatches one CRLF-terminated line at a time to the request
// under construction. It mirrors the byte-scanning technique of
// indexing '\n' directly in the source slice rather than copying into
// a bufio.Scanner, but unlike a one-shot scanner it must survive a
// line being split across many separate consume calls.
type lineParser struct {
	line     *bytebufferpool.ByteBuffer
	lineNum  int
	complete bool
	invalid  bool
	req      *Request
}

func newLineParser(req *Request) *lineParser {
	return &lineParser{
		line: bytebufferpool.Get(),
		req:  req,
	}
}

func (p *lineParser) release() {
	bytebufferpool.Put(p.line)
	p.line = nil
}

// consume feeds data into the parser and returns how many bytes were
// actually folded into (possibly partial) lines. A short return means
// the parser stopped before consuming everything it was given, which
// only happens once the request is complete.
func (p *lineParser) consume(data []byte) int {
	total := 0
	for len(data) != 0 {
		var partLen int
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			partLen = idx + 1
			p.line.Write(data[:partLen])
			p.processLine()
			p.lineNum++
		} else {
			partLen = len(data)
			p.line.Write(data)
		}
		data = data[partLen:]
		total += partLen
		if p.complete {
			break
		}
	}
	return total
}

func (p *lineParser) processLine() {
	line := strings.TrimSuffix(strings.TrimSuffix(p.line.String(), "\n"), "\r")

	switch {
	case line == "":
		// A blank line ends the header section. This server never reads
		// a request body.
		p.complete = true
	case p.lineNum == 0:
		if !parseRequestLine(line, p.req) {
			p.invalid = true
		}
	default:
		parseHeaderLine(line, p.req)
	}

	p.line.Reset()
}

func parseRequestLine(line string, req *Request) bool {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 {
		return false
	}
	req.Method = fields[0]

	target := fields[1]
	if idx := strings.IndexByte(target, '?'); idx >= 0 {
		req.Path = target[:idx]
		req.Query = target[idx+1:]
	} else {
		req.Path = target
	}
	return true
}

func parseHeaderLine(line string, req *Request) {
	if line == connectionKeepAlive {
		req.KeepAlive = true
	}
}
