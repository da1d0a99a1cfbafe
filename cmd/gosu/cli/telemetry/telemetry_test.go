package telemetry

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestNewClientOptOut(t *testing.T) {
	t.Setenv(OptOutEnvVar, "1")
	enabled := true

	if _, ok := NewClient("1.0.0", &enabled).(*NoOpClient); !ok {
		t.Error("opt-out env var should return NoOpClient even when enabled in settings")
	}
}

func TestNewClientDisabledOrUnset(t *testing.T) {
	t.Setenv(OptOutEnvVar, "")
	disabled := false

	if _, ok := NewClient("1.0.0", &disabled).(*NoOpClient); !ok {
		t.Error("telemetry=false should return NoOpClient")
	}
	if _, ok := NewClient("1.0.0", nil).(*NoOpClient); !ok {
		t.Error("telemetry=nil should return NoOpClient")
	}
}

func TestNoOpClientMethods(_ *testing.T) {
	client := &NoOpClient{}
	client.TrackCommand(nil)
	client.TrackCommand(&cobra.Command{Use: "test"})
	client.Close()
}

func TestPostHogClientSkipsNilClientAndHidden(_ *testing.T) {
	client := &PostHogClient{machineID: "test-id"}
	client.TrackCommand(&cobra.Command{Use: "guard", Hidden: true})
	client.TrackCommand(&cobra.Command{Use: "tasks"})
	client.Close()
}

func TestFlagNames(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	cmd.Flags().String("status", "", "")
	cmd.Flags().Bool("color", false, "")
	if err := cmd.Flags().Parse([]string{"--status", "done"}); err != nil {
		t.Fatal(err)
	}

	got := FlagNames(cmd)
	if len(got) != 1 || got[0] != "status" {
		t.Errorf("FlagNames() = %v, want [status]", got)
	}
}
