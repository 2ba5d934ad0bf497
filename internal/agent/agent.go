// Package agent implements the autonomous browsing agent that works a
// contact search: it observes the current page, asks a planner for the next
// action and executes it until the planner declares the task done.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"contactuse/internal/logger"
	"contactuse/internal/platform/browser"
	"contactuse/internal/utils/markdown"
	"contactuse/prompts"
)

var (
	ErrStepLimit   = errors.New("agent step limit reached")
	ErrBadReplies  = errors.New("planner kept returning invalid actions")
	ErrUnknownLink = errors.New("link index not on current page")
)

const (
	maxBadReplies  = 3
	maxPageText    = 12000
	maxListedLinks = 60
	maxHistory     = 25
)

// Browser is the slice of a browser session the agent drives.
type Browser interface {
	Goto(ctx context.Context, url string) error
	Snapshot(ctx context.Context) (browser.Snapshot, error)
	Close() error
}

// Launcher opens a fresh browser session for one run.
type Launcher func(ctx context.Context) (Browser, error)

// Planner chooses the next step given the rendered prompt variables.
type Planner interface {
	Plan(ctx context.Context, vars map[string]any) (string, error)
}

type Config struct {
	MaxSteps        int
	SearchEngineURL string
}

type BrowserAgent struct {
	cfg     Config
	launch  Launcher
	planner Planner
	log     *logger.Logger
}

func New(cfg Config, launch Launcher, planner Planner) *BrowserAgent {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 100
	}
	if cfg.SearchEngineURL == "" {
		cfg.SearchEngineURL = "https://duckduckgo.com/html/?q="
	}
	return &BrowserAgent{cfg: cfg, launch: launch, planner: planner, log: logger.New("BrowserAgent")}
}

// PlaywrightLauncher opens persistent-profile playwright sessions. All
// sessions share one logger.
func PlaywrightLauncher(opts browser.Options) Launcher {
	if opts.Log == nil {
		opts.Log = logger.New("Browser")
	}
	return func(ctx context.Context) (Browser, error) {
		s, err := browser.Launch(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Run works the task until the planner reports a result, and returns that
// result verbatim.
func (a *BrowserAgent) Run(ctx context.Context, task string) (string, error) {
	b, err := a.launch(ctx)
	if err != nil {
		return "", fmt.Errorf("browser session: %w", err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			a.log.LogWarnf("closing browser session: %v", cerr)
		}
	}()

	var (
		history []string
		links   []markdown.Link
		bad     int
	)
	for step := 1; step <= a.cfg.MaxSteps; step++ {
		obs, pageLinks, err := a.observe(ctx, b)
		if err != nil {
			return "", err
		}
		links = pageLinks

		reply, err := a.planner.Plan(ctx, map[string]any{
			"task":          task,
			"action_schema": prompts.ActionSchema,
			"history":       renderHistory(history),
			"observation":   obs,
		})
		if err != nil {
			return "", fmt.Errorf("planner: %w", err)
		}

		act, err := ParseAction(reply)
		if err != nil {
			bad++
			a.log.LogWarnf("step %d: invalid planner reply: %v", step, err)
			if bad >= maxBadReplies {
				return "", fmt.Errorf("%w: %v", ErrBadReplies, err)
			}
			history = append(history, fmt.Sprintf("step %d: your reply was rejected (%v); answer with one JSON action", step, err))
			continue
		}
		bad = 0

		if act.Kind == ActionDone {
			a.log.LogInfof("finished after %d steps", step)
			return act.Result, nil
		}

		target, err := a.resolve(act, links)
		if err != nil {
			history = append(history, fmt.Sprintf("step %d: %s failed: %v", step, act, err))
			continue
		}
		a.log.LogDebugf("step %d: %s -> %s", step, act, target)
		if err := b.Goto(ctx, target); err != nil {
			history = append(history, fmt.Sprintf("step %d: %s failed: %v", step, act, err))
			continue
		}
		history = append(history, fmt.Sprintf("step %d: %s", step, act))
	}
	return "", fmt.Errorf("%w (%d)", ErrStepLimit, a.cfg.MaxSteps)
}

func (a *BrowserAgent) resolve(act Action, links []markdown.Link) (string, error) {
	switch act.Kind {
	case ActionNavigate:
		return act.URL, nil
	case ActionSearch:
		return a.cfg.SearchEngineURL + url.QueryEscape(act.Query), nil
	case ActionOpen:
		if act.Index < 0 || act.Index >= len(links) {
			return "", fmt.Errorf("%w: %d", ErrUnknownLink, act.Index)
		}
		return links[act.Index].URL, nil
	default:
		return "", fmt.Errorf("unsupported action %q", act.Kind)
	}
}

// observe renders the current page for the planner: location, readable
// text and a numbered list of links the planner can open.
func (a *BrowserAgent) observe(ctx context.Context, b Browser) (string, []markdown.Link, error) {
	snap, err := b.Snapshot(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("observe page: %w", err)
	}

	links := markdown.ExtractLinks(snap.HTML, snap.URL)
	if len(links) > maxListedLinks {
		links = links[:maxListedLinks]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "URL: %s\nTitle: %s\n\n", snap.URL, snap.Title)
	sb.WriteString(markdown.Truncate(markdown.ConvertHTMLToMarkdown(snap.HTML), maxPageText))
	if len(links) > 0 {
		sb.WriteString("\n\nLinks:\n")
		for i, l := range links {
			fmt.Fprintf(&sb, "[%d] %s (%s)\n", i, l.Text, l.URL)
		}
	}
	return sb.String(), links, nil
}

func renderHistory(history []string) string {
	if len(history) == 0 {
		return "(none yet)"
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return strings.Join(history, "\n")
}
