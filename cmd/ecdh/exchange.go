package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ecdh/internal/config"
	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/kdf"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
	"github.com/smallyu/go-ecdh/internal/protocol/kex"
	"github.com/smallyu/go-ecdh/pkg/ecdh"
)

type party string

func (p party) ID() string      { return string(p) }
func (p party) Moniker() string { return string(p) }

const (
	initiatorID party = "initiator"
	responderID party = "responder"
)

func exchangeCmd() *cobra.Command {
	var keyPath string

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Run both sides of a key establishment locally",
		Long: `Runs an initiator and a responder against each other on the configured
curve and reports the ephemeral point, a fingerprint of the derived key and
whether both sides agree. The responder uses the key pair from --key, or a
fresh one.

On a curve whose order n is not prime, such as toy23, the shared point can be
the point at infinity and the exchange fails. Run the command again: each run
draws a fresh ephemeral scalar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var key *keys.KeyPair
			if keyPath != "" {
				key, err = config.LoadKey(keyPath)
				if err != nil {
					return err
				}
				if curveName == "" {
					cfg.Curve = config.CurveConfig{Name: key.Curve().Name()}
				}
			}

			curve, err := cfg.BuildCurve()
			if err != nil {
				return err
			}
			if key == nil {
				if key, err = keys.Generate(curve, nil); err != nil {
					return err
				}
			}
			defer key.Destroy()

			ri, rr, err := runExchange(curve, cfg, key, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "curve:       %s\n", curve)
			fmt.Fprintf(out, "responder:   %s\n", hex.EncodeToString(key.Public().Bytes()))
			fmt.Fprintf(out, "ephemeral:   %s\n", hex.EncodeToString(ri.Transmit.Bytes()))
			fmt.Fprintf(out, "fingerprint: %s\n", hex.EncodeToString(kdf.Fingerprint(ri.Key)))
			fmt.Fprintf(out, "agreement:   %t\n", ri.Shared.Equal(rr.Shared) && bytes.Equal(ri.Key, rr.Key))
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "responder key file written by keygen")
	return cmd
}

// runExchange drives both state machines to completion and returns the
// initiator's and the responder's results.
func runExchange(curve *curves.Curve, cfg *config.Config, key *keys.KeyPair, src keys.Source) (*kex.Result, *kex.Result, error) {
	params := func(self, peer ecdh.PartyID) *ecdh.Parameters {
		return &ecdh.Parameters{
			PartyID:     self,
			Peer:        peer,
			SessionID:   []byte(cfg.SessionID),
			KeySize:     cfg.KDFSize,
			CustomCurve: curve,
		}
	}

	resp, _, err := kex.NewResponder(params(responderID, initiatorID), key)
	if err != nil {
		return nil, nil, err
	}
	ism, msgs, err := kex.NewInitiator(params(initiatorID, responderID), key.Public(), src)
	if err != nil {
		return nil, nil, err
	}

	for _, msg := range msgs {
		next, _, err := resp.Update(msg)
		if err != nil {
			return nil, nil, err
		}
		resp = next
	}

	ri, rr := kex.ResultOf(ism), kex.ResultOf(resp)
	if ri == nil || rr == nil {
		return nil, nil, errors.New("exchange did not complete")
	}
	return ri, rr, nil
}
