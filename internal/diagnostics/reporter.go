// Package diagnostics writes host, GPU, settings, process and lifecycle
// facts about the running application to a log sink, one line per fact.
package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"

	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/event"
	"codeberg.org/mutker/appdiag/internal/logger"
)

const (
	systemBanner  = "-----------------Gathering system information-----------------"
	gpuBanner     = "-----------------Gathering GPU information-----------------"
	podBanner     = "-----------------Gathering POD & App information-----------------"
	metricsBanner = "-----------------Gathering App Metrics-----------------"
)

// ConfigFields are the settings reported by PodStats, in request order.
var ConfigFields = []string{
	"url",
	"minimizeOnClose",
	"launchOnStartup",
	"alwaysOnTop",
	"bringToFront",
	"whitelistUrl",
	"isCustomTitleBar",
	"memoryRefresh",
	"devToolsEnabled",
	"ctWhitelist",
	"notificationSettings",
	"crashReporter",
	"customFlags",
	"permissions",
	"autoLaunchPath",
}

// AppEvents are the lifecycle events WatchAppEvents logs.
var AppEvents = []string{
	"will-finish-launching",
	"ready",
	"window-all-closed",
	"before-quit",
	"will-quit",
	"quit",
	"open-file",
	"open-url",
	"activate",
	"browser-window-created",
	"web-contents-created",
	"certificate-error",
	"login",
	"gpu-process-crashed",
	"accessibility-support-changed",
	"session-created",
	"second-instance",
}

type Reporter struct {
	deps Deps
}

// Session is the state left behind by Run: the pending settings report and
// the lifecycle event listeners.
type Session struct {
	Config <-chan PodResult
	Events *event.Subscription
}

// Close removes the lifecycle event listeners
func (s *Session) Close() error {
	if s == nil || s.Events == nil {
		return nil
	}
	return s.Events.Close()
}

func New(deps Deps) (*Reporter, error) {
	errFactory := errors.New()

	required := []struct {
		name    string
		missing bool
	}{
		{"sink", deps.Sink == nil},
		{"system", deps.System == nil},
		{"gpu", deps.GPU == nil},
		{"config", deps.Config == nil},
		{"metrics", deps.Metrics == nil},
		{"process", deps.Process == nil},
		{"events", deps.Events == nil},
	}
	for _, dep := range required {
		if dep.missing {
			return nil, errFactory.WithData(ErrMissingDependency, dep.name)
		}
	}

	return &Reporter{deps: deps}, nil
}

// Run performs a full diagnostics pass: system, GPU, settings (deferred),
// app metrics, lifecycle event listeners and process info. The first
// synchronous failure ends the pass; listeners installed by then are removed.
func (r *Reporter) Run(ctx context.Context) (*Session, error) {
	errFactory := errors.New()

	if err := r.SystemStats(ctx); err != nil {
		return nil, errFactory.Wrap(errors.ErrDiagnostics, err)
	}

	if err := r.GPUStats(ctx); err != nil {
		return nil, errFactory.Wrap(errors.ErrDiagnostics, err)
	}

	pod := r.PodStats(ctx)

	if err := r.AppMetrics(ctx); err != nil {
		return nil, errFactory.Wrap(errors.ErrDiagnostics, err)
	}

	session := &Session{
		Config: pod,
		Events: r.WatchAppEvents(),
	}

	if err := r.ProcessInfo(ctx); err != nil {
		_ = session.Close()
		return nil, errFactory.Wrap(errors.ErrDiagnostics, err)
	}

	return session, nil
}

// Refresh re-runs the on-demand reporters: system, GPU, settings and app
// metrics. The returned channel carries the deferred settings result.
func (r *Reporter) Refresh(ctx context.Context) (<-chan PodResult, error) {
	errFactory := errors.New()

	if err := r.SystemStats(ctx); err != nil {
		return nil, errFactory.Wrap(errors.ErrRefresh, err)
	}

	if err := r.GPUStats(ctx); err != nil {
		return nil, errFactory.Wrap(errors.ErrRefresh, err)
	}

	pod := r.PodStats(ctx)

	if err := r.AppMetrics(ctx); err != nil {
		return pod, errFactory.Wrap(errors.ErrRefresh, err)
	}

	return pod, nil
}

func (r *Reporter) info(msg string) {
	r.deps.Sink.Send(logger.InfoLevel, msg)
}

// formatFact renders "<label> -> <json value>"
func formatFact(label string, value any) (string, error) {
	out, err := json.Marshal(value)
	if err != nil {
		return "", errors.New().Wrap(ErrSerializeFact, fmt.Errorf("%s: %w", label, err))
	}

	return label + " -> " + string(out), nil
}
