package httpapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

type uploadResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// UploadFile streams the file as multipart/form-data and reports the share
// of file bytes handed to the transport.
func (c *Client) UploadFile(ctx context.Context, file remote.File, progress remote.ProgressFunc) (string, error) {
	if file.Open == nil {
		return "", remote.Errorf(remote.OpUpload, "file %q has no content", file.Name)
	}
	src, err := file.Open()
	if err != nil {
		return "", remote.Wrap(remote.OpUpload, fmt.Errorf("open file: %w", err))
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		defer src.Close()
		pw.CloseWithError(writeMultipart(mw, file, &progressReader{r: src, total: file.Size, report: progress}))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/upload_resume/", nil), pr)
	if err != nil {
		return "", remote.Wrap(remote.OpUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", remote.Wrap(remote.OpUpload, err)
	}
	if strings.TrimSpace(out.Filename) == "" {
		return "", remote.Wrap(remote.OpUpload, errEmptyFilename)
	}
	if progress != nil {
		progress(100)
	}
	return out.Filename, nil
}

func writeMultipart(mw *multipart.Writer, file remote.File, body io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	return mw.Close()
}

// progressReader reports non-decreasing percentages of total as bytes are read.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report remote.ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.report != nil && p.total > 0 && n > 0 {
		pct := remote.ClampPercent(int(p.read * 100 / p.total))
		if pct > p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

type parseResponse struct {
	Error      *string             `json:"error"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Skills     []string            `json:"skills"`
	Education  []string            `json:"education"`
	Experience []remote.Experience `json:"experience"`
}

// FetchParsedResume asks the backend to parse a stored file. A 2xx body
// carrying an "error" field is a parse failure.
func (c *Client) FetchParsedResume(ctx context.Context, fileID string) (remote.ParsedResume, error) {
	var out parseResponse
	if err := c.getJSON(ctx, "/parse_resume/", url.Values{"filename": {fileID}}, &out); err != nil {
		return remote.ParsedResume{}, remote.Wrap(remote.OpParse, err)
	}
	if out.Error != nil {
		return remote.ParsedResume{}, remote.Errorf(remote.OpParse, "%s", *out.Error)
	}
	p := remote.ParsedResume{
		Name:       strings.TrimSpace(out.Name),
		Email:      strings.TrimSpace(out.Email),
		Skills:     nonNil(out.Skills),
		Education:  nonNil(out.Education),
		Experience: out.Experience,
	}
	if p.Experience == nil {
		p.Experience = []remote.Experience{}
	}
	return p, nil
}

type careerWire struct {
	Title      string   `json:"title"`
	Confidence *float64 `json:"confidence"`
	Score      *float64 `json:"score"`
	Skills     []string `json:"skills"`
}

type suggestResponse struct {
	SuggestedCareers []careerWire `json:"suggested_careers"`
	Suggested        []careerWire `json:"suggested"`
	ParsedSkills     []string     `json:"parsed_skills"`
	Message          string       `json:"message"`
	MethodUsed       string       `json:"method_used"`
}

// FetchCareerSuggestions returns ranked careers for a stored file. Entries
// without a title are dropped.
func (c *Client) FetchCareerSuggestions(ctx context.Context, fileID string) (remote.Suggestions, error) {
	var out suggestResponse
	if err := c.postJSON(ctx, "/suggest_careers/", url.Values{"filename": {fileID}}, nil, &out); err != nil {
		return remote.Suggestions{}, remote.Wrap(remote.OpSuggest, err)
	}
	wire := out.SuggestedCareers
	if wire == nil {
		wire = out.Suggested
	}
	careers := make([]remote.CareerSuggestion, 0, len(wire))
	for _, w := range wire {
		title := strings.TrimSpace(w.Title)
		if title == "" {
			continue
		}
		careers = append(careers, remote.CareerSuggestion{
			Title:      title,
			Confidence: w.Confidence,
			Score:      w.Score,
			Skills:     nonNil(w.Skills),
		})
	}
	return remote.Suggestions{
		Careers:      careers,
		ParsedSkills: out.ParsedSkills,
		Method:       out.MethodUsed,
		Message:      out.Message,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
