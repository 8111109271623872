package httpcore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const pageTitle = "CIFAR Dataset Browser"

const errorPageTemplate = `<html>
<head>
  <title>%[1]d %[2]s</title>
</head>
<body>
  <center><h1>%[1]d %[2]s</h1></center>
  <hr>
  <center>cifar-server</center>
<center><b>%[3]s</b></center>
</body>
</html>
`

const indexPageHeader = `<html>
<head>
  <title>` + pageTitle + `</title>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
  <link rel="stylesheet" href="static/bootstrap.min.css">
  <style>.pic { width: 48px; height: 48px; }</style>
</head>
<body>
  <div class="container">
    <img src="static/logo_en.svg" width="232" height="97" class="float-right">
    <h1>` + pageTitle + `</h1>
`

const dirListingHeader = `<html>
<head>
  <title>` + pageTitle + `</title>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
  <style>.pic { width: 48px; height: 48px; }</style>
</head>
<body>
  <div class="container">
    <h1>` + pageTitle + `</h1>
`

const pageFooter = `  </div>
</body>
</html>
`

// Resolver turns a parsed Request into a Response. It is the server's
// only dispatch point: the three URL shapes below are the entire wire
// surface this server exposes.
type Resolver struct {
	Blob       *BlobStore
	StaticRoot string
}

// Handle dispatches req to the matching handler, or a 404/405 page if
// nothing matches.
func (r *Resolver) Handle(req *Request) *Response {
	if !strings.EqualFold(req.Method, "GET") {
		return r.errorPage(StatusMethodNotAllowed)
	}

	switch {
	case req.Path == "/":
		page := 0
		if v, ok := queryParamInt(req.Query, "page"); ok {
			page = v
		}
		return r.indexPage(page)

	case strings.HasPrefix(req.Path, "/images/"):
		var n int
		if _, err := fmt.Sscanf(req.Path, "/images/%d.bmp", &n); err == nil {
			return r.cifarBitmap(n)
		}

	case strings.HasPrefix(req.Path, "/static/"):
		return r.staticFile(strings.TrimPrefix(req.Path, "/static/"))
	}

	return r.errorPage(StatusNotFound)
}

func queryParamInt(query, key string) (int, bool) {
	for _, pair := range strings.Split(query, "&") {
		k, v, found := strings.Cut(pair, "=")
		if found && k == key {
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

func (r *Resolver) errorPage(code int) *Response {
	resp := NewResponse()
	resp.Code = code
	resp.ContentType = "text/html"
	phrase := reasonPhrase(code)
	fmt.Fprintf(resp.Body, errorPageTemplate, code, phrase, strings.TrimPrefix(serverBanner, "Server: "))
	return resp
}

func (r *Resolver) indexPage(page int) *Response {
	if page < 0 || page >= PageCount {
		return r.errorPage(StatusNotFound)
	}

	resp := NewResponse()
	resp.ContentType = "text/html"
	resp.Body.WriteString(indexPageHeader)
	fmt.Fprintf(resp.Body, "<h3>Page %d</h3>\n", page)
	resp.Body.WriteString("<div class=\"form-group\">\n")

	img := page * ImagesPerPage
	resp.Body.WriteString("<table>\n")
	for i := 0; i < TableSize; i++ {
		resp.Body.WriteString("<tr>\n")
		for j := 0; j < TableSize; j++ {
			fmt.Fprintf(resp.Body, "<td><img class=\"pic\" src=\"images/%d.bmp\" alt=\"#%d\"></td>", img, img)
			img++
		}
		resp.Body.WriteString("</tr>\n")
	}
	resp.Body.WriteString("</table>\n")
	resp.Body.WriteString("</div>\n")

	resp.Body.WriteString("<div class=\"form-group\">\n")
	prev := page - 1
	if prev < 0 {
		prev = PageCount - 1
	}
	next := page + 1
	if next >= PageCount {
		next = 0
	}
	fmt.Fprintf(resp.Body, "<a href=\"?page=%d\" class=\"btn btn-secondary\">Previous</a>\n", prev)
	fmt.Fprintf(resp.Body, "<a href=\"?page=%d\" class=\"btn btn-primary\">Next</a>\n", next)
	resp.Body.WriteString("</div>\n")

	resp.Body.WriteString(pageFooter)
	return resp
}

func (r *Resolver) cifarBitmap(n int) *Response {
	record, err := r.Blob.Record(n)
	if err != nil {
		return r.errorPage(StatusNotFound)
	}

	encoded, err := encodeBMP(ImageSize, ImageSize, record[1:])
	if err != nil {
		return r.errorPage(StatusInternalServerError)
	}

	resp := NewResponse()
	resp.ContentType = "image/bmp"
	resp.Body.Write(encoded)
	return resp
}

func (r *Resolver) staticFile(requestPath string) *Response {
	decoded, err := percentDecode(requestPath)
	if err != nil {
		return r.errorPage(StatusNotFound)
	}

	canonicalPath, err := canonicalize(r.StaticRoot, decoded)
	if err != nil {
		switch err {
		case ErrOutsideRoot:
			return r.errorPage(StatusBadRequest)
		case ErrStaticRootUnavailable:
			return r.errorPage(StatusInternalServerError)
		default:
			return r.errorPage(StatusNotFound)
		}
	}

	info, err := os.Stat(canonicalPath)
	if err != nil {
		return r.errorPage(StatusInternalServerError)
	}

	if info.IsDir() {
		return r.dirListing(canonicalPath, requestPath)
	}

	resp := NewResponse()
	resp.ContentType = guessContentType(requestPath)
	resp.UseSendfile = true
	resp.FilePath = canonicalPath
	resp.FileSize = info.Size()
	resp.FileModTime = info.ModTime()
	return resp
}

func (r *Resolver) dirListing(dir, requestPath string) *Response {
	resp := NewResponse()
	resp.ContentType = "text/html"

	resp.Body.WriteString(dirListingHeader)
	fmt.Fprintf(resp.Body, "<h3>Dir %s listing:</h3>\n", requestPath)
	resp.Body.WriteString("<div class=\"form-group\">\n")

	if err := listDir(resp.Body, dir, 1); err != nil {
		return r.errorPage(StatusInternalServerError)
	}

	resp.Body.WriteString("</div>\n")
	resp.Body.WriteString(pageFooter)
	return resp
}

// listDir renders a depth-first, indented directory listing into w,
// recursing into subdirectories before moving to the next sibling.
func listDir(w interface{ Write([]byte) (int, error) }, dir string, indent int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	prefix := strings.Repeat("-", indent)
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if entry.IsDir() {
			fmt.Fprintf(w, "<p>\n%s[%s]\n</p>\n", prefix, name)
			if err := listDir(w, filepath.Join(dir, name), indent+1); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "<p>\n%s%s\n</p>\n", prefix, name)
		}
	}
	return nil
}
