package render

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	DefaultPlaceholder = "/usr/local/lib"
	NoHelpText         = "No help text available for this option"
)

// Sanitizer rewrites machine specific defaults so generated tables are the
// same on every host.
type Sanitizer struct {
	// InstallRoots are path prefixes replaced by Placeholder. Only the first
	// matching root is replaced.
	InstallRoots []string
	// RepoPath is the absolute checkout path. Paths and URIs under it are
	// rewritten to Placeholder as well.
	RepoPath    string
	Placeholder string
	// Hostname defaults equal to it become "localhost".
	Hostname string

	repoRe *regexp.Regexp
}

// NewSanitizer builds a sanitizer using the local hostname.
func NewSanitizer(repoPath, placeholder string, installRoots []string) *Sanitizer {
	host, _ := os.Hostname()
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if repoPath != "" {
		if abs, err := filepath.Abs(repoPath); err == nil {
			repoPath = abs
		}
	}
	s := &Sanitizer{
		InstallRoots: installRoots,
		RepoPath:     repoPath,
		Placeholder:  placeholder,
		Hostname:     host,
	}
	if repoPath != "" {
		s.repoRe = regexp.MustCompile(`(^[^:]+://)?` + regexp.QuoteMeta(repoPath))
	}
	return s
}

// Default renders the default value of an option for display.
func (s *Sanitizer) Default(value, typ string) string {
	value = listDefault(value, typ)
	if s == nil {
		return value
	}

	if s.Hostname != "" && value == s.Hostname {
		return "localhost"
	}

	for _, root := range s.InstallRoots {
		root = strings.TrimSuffix(root, "/")
		if root == "" {
			continue
		}
		if strings.HasPrefix(value, root) {
			value = strings.Replace(value, root, s.Placeholder, 1)
			break
		}
	}

	if s.repoRe != nil && s.repoRe.MatchString(value) {
		value = strings.ReplaceAll(value, s.RepoPath, s.Placeholder)
	}
	return value
}

// Help returns the help text, or a stock sentence when there is none.
func Help(help string) string {
	if strings.TrimSpace(help) == "" {
		return NoHelpText
	}
	return help
}

// listDefault turns pflag's "[a,b]" rendering of slice defaults into "a, b".
func listDefault(value, typ string) string {
	if !isListType(typ) {
		return value
	}
	inner, ok := strings.CutPrefix(value, "[")
	if !ok {
		return value
	}
	inner, ok = strings.CutSuffix(inner, "]")
	if !ok {
		return value
	}
	if inner == "" {
		return ""
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}

func isListType(typ string) bool {
	return strings.HasSuffix(typ, "Slice") || strings.HasSuffix(typ, "Array") || typ == "list"
}
