// Package telemetry sends opt-in, anonymous command usage events.
package telemetry

import (
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// OptOutEnvVar disables telemetry regardless of settings when set to any value.
const OptOutEnvVar = "GOSU_TELEMETRY_OPTOUT"

var (
	// PostHogAPIKey is set at build time for release builds
	PostHogAPIKey = "phc_development_key"
	// PostHogEndpoint is set at build time for release builds
	PostHogEndpoint = "https://us.i.posthog.com"
)

// Client defines the telemetry interface
type Client interface {
	TrackCommand(cmd *cobra.Command)
	Close()
}

// NoOpClient is used whenever telemetry is not enabled.
type NoOpClient struct{}

func (n *NoOpClient) TrackCommand(_ *cobra.Command) {}
func (n *NoOpClient) Close()                        {}

// silentLogger keeps PostHog from writing to the terminal on timeouts.
type silentLogger struct{}

func (silentLogger) Logf(_ string, _ ...interface{})   {}
func (silentLogger) Debugf(_ string, _ ...interface{}) {}
func (silentLogger) Warnf(_ string, _ ...interface{})  {}
func (silentLogger) Errorf(_ string, _ ...interface{}) {}

// PostHogClient is the real telemetry client
type PostHogClient struct {
	client    posthog.Client
	machineID string
	mu        sync.RWMutex
}

// NewClient creates a telemetry client. telemetryEnabled comes from settings;
// nil means the user never opted in.
//
//nolint:ireturn // returns NoOpClient or PostHogClient
func NewClient(version string, telemetryEnabled *bool) Client {
	if os.Getenv(OptOutEnvVar) != "" {
		return &NoOpClient{}
	}
	if telemetryEnabled == nil || !*telemetryEnabled {
		return &NoOpClient{}
	}

	id, err := machineid.ProtectedID("gosu")
	if err != nil {
		return &NoOpClient{}
	}

	// Hooks run on every tool call; never hold up exit on the network.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 100 * time.Millisecond,
		}).DialContext,
		TLSHandshakeTimeout:   100 * time.Millisecond,
		ResponseHeaderTimeout: 100 * time.Millisecond,
	}

	client, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:           PostHogEndpoint,
		ShutdownTimeout:    100 * time.Millisecond,
		BatchUploadTimeout: 200 * time.Millisecond,
		Transport:          transport,
		Logger:             silentLogger{},
		DisableGeoIP:       posthog.Ptr(true),
		DefaultEventProperties: posthog.NewProperties().
			Set("cli_version", version).
			Set("os", runtime.GOOS).
			Set("arch", runtime.GOARCH),
	})
	if err != nil {
		return &NoOpClient{}
	}

	return &PostHogClient{client: client, machineID: id}
}

// TrackCommand records the command path and the names (never values) of the flags set.
func (p *PostHogClient) TrackCommand(cmd *cobra.Command) {
	if cmd == nil || cmd.Hidden {
		return
	}

	p.mu.RLock()
	id := p.machineID
	c := p.client
	p.mu.RUnlock()

	if c == nil {
		return
	}

	props := posthog.NewProperties().Set("command", cmd.CommandPath())
	if flags := FlagNames(cmd); len(flags) > 0 {
		props.Set("flags", strings.Join(flags, ","))
	}

	//nolint:errcheck // best effort
	_ = c.Enqueue(posthog.Capture{
		DistinctId: id,
		Event:      "cli_command_executed",
		Properties: props,
	})
}

// Close flushes pending events
func (p *PostHogClient) Close() {
	p.mu.RLock()
	c := p.client
	p.mu.RUnlock()

	if c != nil {
		_ = c.Close()
	}
}

// FlagNames lists the flags explicitly set on cmd.
func FlagNames(cmd *cobra.Command) []string {
	var flags []string
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		flags = append(flags, flag.Name)
	})
	return flags
}
