// FILE: internal/client/commands/debug.go
package commands

import (
	"fmt"
	"strings"
	"time"

	"chessrules/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Group:       "Utility",
		Handler:     healthHandler,
	})
	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Show or set API base URL",
		Usage:       "url [apiUrl]",
		Group:       "Utility",
		Handler:     urlHandler,
	})
	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send raw API request",
		Usage:       "raw <method> <path> [json-body]",
		Group:       "Utility",
		Handler:     rawRequestHandler,
	})
	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Clear screen",
		Usage:       "clear",
		Group:       "Utility",
		Handler:     clearHandler,
	})
}

func healthHandler(s *Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	s.printf("%sServer Health:%s\n", display.Cyan, display.Reset)
	s.printf("  Status:  %s\n", resp.Status)
	s.printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		s.printf("  Storage: %s\n", resp.Storage)
	}
	return nil
}

func urlHandler(s *Session, args []string) error {
	if len(args) == 0 {
		s.printf("Current API URL: %s\n", s.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	s.APIBaseURL = url
	s.Client.SetBaseURL(url)
	s.printf("%sAPI URL set to: %s%s\n", display.Cyan, url, display.Reset)
	return nil
}

func rawRequestHandler(s *Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}
	body := strings.Join(args[2:], " ")
	return s.Client.RawRequest(strings.ToUpper(args[0]), args[1], body)
}

func clearHandler(s *Session, args []string) error {
	s.printf("\033[H\033[2J")
	return nil
}
