package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskledger/internal/dispatch"
	"github.com/mrz1836/taskledger/internal/errors"
)

// printEnvelope renders an envelope to w in the requested output format and
// returns ErrInvocationFailed for failure envelopes so callers can exit
// non-zero without printing anything further.
func printEnvelope(w io.Writer, env dispatch.Envelope, format string) error {
	switch format {
	case OutputJSON:
		if err := printEnvelopeJSON(w, env); err != nil {
			return err
		}
	default:
		if err := printEnvelopeText(w, env); err != nil {
			return err
		}
	}

	if !env.Success {
		return errors.ErrInvocationFailed
	}
	return nil
}

// printEnvelopeJSON writes the whole envelope as indented JSON.
func printEnvelopeJSON(w io.Writer, env dispatch.Envelope) error {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode envelope")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printEnvelopeText writes a human-readable rendering: a status line followed
// by the payload as YAML.
func printEnvelopeText(w io.Writer, env dispatch.Envelope) error {
	if !env.Success {
		_, err := fmt.Fprintf(w, "FAILED  %s\n  %s\n", env.Timestamp, env.Error)
		return err
	}

	if _, err := fmt.Fprintf(w, "OK  %s\n", env.Timestamp); err != nil {
		return err
	}
	if env.Data == nil {
		return nil
	}

	rendered, err := renderDataYAML(env.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

// renderDataYAML renders payload data as YAML. The data is round-tripped
// through JSON first so the output keeps the envelope's snake_case field
// names instead of yaml's lowercased Go identifiers.
func renderDataYAML(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode payload")
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", errors.Wrap(err, "failed to decode payload")
	}

	out, err := yaml.Marshal(generic)
	if err != nil {
		return "", errors.Wrap(err, "failed to render payload")
	}
	return string(out), nil
}
