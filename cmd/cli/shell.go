package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/resume"
	"github.com/Anaswara-jk/Careerly/pkg/view"
)

const helpText = `commands:
  chat               open the career chat
  say <text>         send a message
  pick <n>           send quick reply number n
  reset-chat         start a new conversation
  select <path>      choose a resume file (pdf, doc, docx)
  analyze            upload, parse and get career suggestions
  status             show the resume analysis state
  reset-resume       forget the selected file and results
  ack                dismiss a finished analysis
  quit               leave`

var errQuit = errors.New("quit")

type shell struct {
	coord *guide.Coordinator
	out   io.Writer

	// shown counts transcript messages already printed for sessionID.
	sessionID string
	shown     int
	mode      view.Mode
}

func newShell(coord *guide.Coordinator, out io.Writer) *shell {
	return &shell{coord: coord, out: out, mode: coord.View().Mode}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Career guidance. Type 'help' for commands.")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		err := s.exec(ctx, sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	var err error
	switch cmd {
	case "":
		return nil
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return errQuit
	case "chat":
		err = s.coord.OpenChat(ctx)
		s.printTranscript()
	case "say":
		err = s.coord.Chat().SendMessage(ctx, arg)
		s.printTranscript()
	case "pick":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return fmt.Errorf("pick needs a number, got %q", arg)
		}
		err = s.coord.Chat().SelectSuggestionAt(ctx, n-1)
		s.printTranscript()
	case "reset-chat":
		err = s.coord.Chat().Reset(ctx)
		s.printTranscript()
	case "select":
		err = s.selectFile(arg)
	case "analyze":
		err = s.coord.Analyze(ctx)
		s.printAnalysis()
	case "status":
		s.printAnalysis()
	case "reset-resume":
		s.coord.ResetAnalysis()
		s.printAnalysis()
	case "ack":
		err = s.coord.AcknowledgeAnalysis()
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	s.noticeViewChange()
	return err
}

func (s *shell) selectFile(path string) error {
	if path == "" {
		return errors.New("select needs a file path")
	}
	f, err := resume.OpenFile(path)
	if err != nil {
		return err
	}
	if err := s.coord.SelectFile(f); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "selected %s (%d bytes)\n", f.Name, f.Size)
	if text, err := s.coord.Preview(400); err == nil && text != "" {
		fmt.Fprintln(s.out, indent(text))
	}
	return nil
}

// printTranscript prints messages not yet shown and the current quick replies.
func (s *shell) printTranscript() {
	snap := s.coord.Chat().Snapshot()
	if snap.SessionID != s.sessionID {
		s.sessionID, s.shown = snap.SessionID, 0
	}
	for _, m := range snap.Transcript[min(s.shown, len(snap.Transcript)):] {
		who := "you"
		if m.Sender == chat.SenderBot {
			who = "bot"
		}
		fmt.Fprintf(s.out, "%s: %s\n", who, stripMarkup(m.Text))
		if m.Metadata != nil {
			for _, r := range m.Metadata.Recommendations {
				fmt.Fprintf(s.out, "     * %s (%.0f%% match) %s\n", r.Title, r.MatchScore, strings.Join(r.KeySkills, ", "))
			}
		}
	}
	s.shown = len(snap.Transcript)
	if len(snap.Suggestions) > 0 {
		opts := make([]string, len(snap.Suggestions))
		for i, sg := range snap.Suggestions {
			opts[i] = fmt.Sprintf("[%d] %s", i+1, sg)
		}
		fmt.Fprintf(s.out, "     %s\n", strings.Join(opts, "  "))
	}
	fmt.Fprintf(s.out, "     stage %s, %d%%\n", snap.Stage, snap.Progress)
}

func (s *shell) printAnalysis() {
	snap := s.coord.Workflow().Snapshot()
	file := snap.SelectedFile
	if file == "" {
		file = "none"
	}
	fmt.Fprintf(s.out, "resume: %s, file %s, upload %d%%\n", snap.Stage, file, snap.UploadProgress)
	if snap.Status != "" {
		fmt.Fprintf(s.out, "  %s\n", snap.Status)
	}
	if p := snap.Parsed; p != nil {
		fmt.Fprintf(s.out, "  name: %s\n  email: %s\n  skills: %s\n", orNA(p.Name), orNA(p.Email), orNA(strings.Join(p.Skills, ", ")))
	}
	if sg := snap.Suggestions; sg != nil {
		fmt.Fprintln(s.out, "  careers:")
		for i, c := range sg.Careers {
			line := fmt.Sprintf("    %d. %s", i+1, c.Title)
			if c.Confidence != nil {
				line += fmt.Sprintf(" (%.0f%%)", *c.Confidence*100)
			}
			fmt.Fprintln(s.out, line)
		}
	}
}

func (s *shell) noticeViewChange() {
	mode := s.coord.View().Mode
	if mode == s.mode {
		return
	}
	s.mode = mode
	if mode == view.ModeResume {
		fmt.Fprintln(s.out, "The assistant suggests a resume analysis: use 'select <path>' and then 'analyze'.")
	}
}

var (
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	reCode    = regexp.MustCompile("`([^`]*)`")
	reHeading = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBullet  = regexp.MustCompile(`(?m)^\s*[*•]\s+`)
)

// stripMarkup removes light markdown for terminal display.
func stripMarkup(s string) string {
	s = reBold.ReplaceAllString(s, "$1$2")
	s = reCode.ReplaceAllString(s, "$1")
	s = reHeading.ReplaceAllString(s, "")
	s = reBullet.ReplaceAllString(s, "- ")
	return s
}

func indent(s string) string {
	return "  | " + strings.ReplaceAll(s, "\n", "\n  | ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
