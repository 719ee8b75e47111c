// Package content produces index documents from markdown files on disk:
// static pages under pages/ and blog articles under blog/, each with YAML
// frontmatter.
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nakedpineapple/storesearch/internal/domain"
	"github.com/nakedpineapple/storesearch/internal/logger"
)

const frontmatterDelim = "---"

// Store reads markdown documents from a content directory.
type Store struct {
	dir string
}

// NewStore creates a content store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// frontmatter is the YAML header of a markdown document.
type frontmatter struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Author        string   `yaml:"author"`
	PublishedAt   string   `yaml:"published_at"`
	UpdatedAt     string   `yaml:"updated_at"`
	FeaturedImage string   `yaml:"featured_image"`
	Tags          []string `yaml:"tags"`
	Draft         bool     `yaml:"draft"`
}

// Pages loads every static page document.
func (s *Store) Pages(ctx context.Context) ([]domain.Document, error) {
	return s.load(ctx, "pages", domain.DocTypePage, false)
}

// Articles loads every published blog article. Drafts are skipped.
func (s *Store) Articles(ctx context.Context) ([]domain.Document, error) {
	return s.load(ctx, "blog", domain.DocTypeArticle, true)
}

func (s *Store) load(ctx context.Context, subdir string, docType domain.DocType, skipDrafts bool) ([]domain.Document, error) {
	log := logger.FromContext(ctx)

	pattern := filepath.Join(s.dir, subdir, "*.md")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		doc, draft, err := parseFile(path, docType)
		if err != nil {
			// A single bad file must not block the rest of the content.
			log.Warn("skipping unparseable content file",
				zap.String("path", path), zap.Error(err))
			continue
		}
		if draft && skipDrafts {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// parseFile reads one markdown document: frontmatter for metadata, the body
// as the searchable description when frontmatter carries none.
func parseFile(path string, docType domain.DocType) (domain.Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, false, fmt.Errorf("read file: %w", err)
	}

	fm, body, err := splitFrontmatter(string(data))
	if err != nil {
		return domain.Document{}, false, err
	}

	slug := strings.TrimSuffix(filepath.Base(path), ".md")
	title := fm.Title
	if title == "" {
		title = slug
	}
	description := fm.Description
	if description == "" {
		description = summarize(body)
	}

	return domain.Document{
		DocType:     docType,
		Handle:      slug,
		Title:       title,
		Description: description,
		ImageURL:    fm.FeaturedImage,
		Available:   true,
		Tags:        fm.Tags,
	}, fm.Draft, nil
}

// splitFrontmatter separates the YAML header from the markdown body.
// A document without a header is all body.
func splitFrontmatter(content string) (frontmatter, string, error) {
	var fm frontmatter

	trimmed := strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(trimmed, frontmatterDelim+"\n") && trimmed != frontmatterDelim {
		return fm, trimmed, nil
	}

	rest := strings.TrimPrefix(trimmed, frontmatterDelim+"\n")
	end := strings.Index(rest, "\n"+frontmatterDelim)
	if end < 0 {
		return fm, "", fmt.Errorf("unterminated frontmatter")
	}

	header := rest[:end]
	body := rest[end+len("\n"+frontmatterDelim):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, body, nil
}

// summarize reduces a markdown body to a short plain-text excerpt.
func summarize(body string) string {
	const maxLen = 300

	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#>*- "))
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
		if b.Len() >= maxLen {
			break
		}
	}

	out := b.String()
	if len(out) > maxLen {
		// Cut back to a rune boundary so the excerpt stays valid UTF-8.
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}
