//go:build js && wasm

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-ecdh/internal/config"
	"github.com/smallyu/go-ecdh/internal/crypto/curves"
	"github.com/smallyu/go-ecdh/internal/crypto/kdf"
	"github.com/smallyu/go-ecdh/internal/crypto/keys"
	"github.com/smallyu/go-ecdh/internal/protocol/kex"
	"github.com/smallyu/go-ecdh/pkg/ecdh"
)

// Active state machines, keyed by session handle.
var sessions = make(map[string]ecdh.StateMachine)

// Key pairs generated in this instance, keyed by their public point. Private
// scalars never cross into JS.
var keyPairs = keys.NewStore()

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go ECDH WASM Initialized")

	js.Global().Set("GoECDH", map[string]interface{}{
		"GenerateKey":  js.FuncOf(GenerateKey),
		"Initiate":     js.FuncOf(Initiate),
		"NewResponder": js.FuncOf(NewResponder),
		"Update":       js.FuncOf(Update),
		"Result":       js.FuncOf(Result),
		"ForgetKey":    js.FuncOf(ForgetKey),
	})

	<-c
}

// ParamsInput mirrors ecdh.Parameters for JSON callers.
type ParamsInput struct {
	PartyID   string `json:"partyID"`
	Peer      string `json:"peer"`
	Curve     string `json:"curve"`
	SessionID string `json:"sessionID"`
	KeySize   int    `json:"keySize"`

	// PeerPublic is the responder's hex SEC1 public point (initiator only).
	PeerPublic string `json:"peerPublic"`

	// Public selects a key pair made by GenerateKey (responder only).
	Public string `json:"public"`
}

func (in *ParamsInput) parameters() *ecdh.Parameters {
	params := &ecdh.Parameters{
		PartyID:   &SimplePartyID{IDVal: in.PartyID, MonikerVal: in.PartyID},
		Curve:     in.Curve,
		SessionID: []byte(in.SessionID),
		KeySize:   in.KeySize,
	}
	if in.Peer != "" {
		params.Peer = &SimplePartyID{IDVal: in.Peer, MonikerVal: in.Peer}
	}
	return params
}

// GenerateKey creates a key pair on a named curve.
// Arguments:
// 0: curve name
// Returns:
// hex SEC1 public point, which also identifies the key pair
func GenerateKey(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (curve)"
	}

	curve, err := curves.ByName(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	kp, err := keys.Generate(curve, nil)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	return keyPairs.Put(kp)
}

// ForgetKey destroys a key pair made by GenerateKey and drops it.
// Arguments:
// 0: hex SEC1 public point returned by GenerateKey
// Returns:
// "ok" or an error string
func ForgetKey(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (public)"
	}
	if !keyPairs.Forget(args[0].String()) {
		return "error: unknown key pair"
	}
	return "ok"
}

// Initiate runs the initiator side.
// Arguments:
// 0: JSON string of parameters, with peerPublic set
// Returns:
// JSON object { sessionID, messages }
func Initiate(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	var input ParamsInput
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	curve, err := curves.ByName(input.Curve)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	peer, err := config.ParsePublic(curve, input.PeerPublic)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	sm, outMsgs, err := kex.NewInitiator(input.parameters(), peer, nil)
	if err != nil {
		return fmt.Sprintf("error: failed to initiate: %v", err)
	}

	sessionHandle := fmt.Sprintf("%s-%s", input.PartyID, input.SessionID)
	sessions[sessionHandle] = sm

	resp := map[string]interface{}{
		"sessionID": sessionHandle,
		"messages":  encodeMessages(outMsgs),
	}
	respBytes, _ := json.Marshal(resp)
	return string(respBytes)
}

// NewResponder prepares the responder side for a key pair made by GenerateKey.
// Arguments:
// 0: JSON string of parameters, with public set
// Returns:
// Session ID (string)
func NewResponder(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	var input ParamsInput
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	kp, ok := keyPairs.Get(input.Public)
	if !ok {
		return "error: unknown key pair"
	}

	sm, _, err := kex.NewResponder(input.parameters(), kp)
	if err != nil {
		return fmt.Sprintf("error: failed to create responder: %v", err)
	}

	sessionHandle := fmt.Sprintf("%s-%s", input.PartyID, input.SessionID)
	sessions[sessionHandle] = sm
	return sessionHandle
}

// MessageDTO is the JSON form of a protocol message.
type MessageDTO struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data"` // Hex encoded
	Type  string `json:"type"`
	Round uint32 `json:"round"`
}

// Update processes an incoming message.
// Arguments:
// 0: Session ID (string)
// 1: JSON string of message
// Returns:
// JSON string of output messages (array)
func Update(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (sessionID, jsonMsg)"
	}

	sessionID := args[0].String()
	sm, ok := sessions[sessionID]
	if !ok {
		return "error: session not found"
	}

	var dto MessageDTO
	if err := json.Unmarshal([]byte(args[1].String()), &dto); err != nil {
		return fmt.Sprintf("error: invalid message dto: %v", err)
	}
	data, err := hex.DecodeString(dto.Data)
	if err != nil {
		return fmt.Sprintf("error: invalid hex data: %v", err)
	}

	msg := &kex.KexMessage{
		FromParty:  &SimplePartyID{IDVal: dto.From, MonikerVal: dto.From},
		Data:       data,
		TypeString: dto.Type,
		RoundNum:   dto.Round,
	}
	if dto.To != "" {
		msg.ToParty = &SimplePartyID{IDVal: dto.To, MonikerVal: dto.To}
	}

	nextSm, outMsgs, err := sm.Update(msg)
	if err != nil {
		if nextSm == nil {
			delete(sessions, sessionID)
		}
		return fmt.Sprintf("error: update failed: %v", err)
	}
	sessions[sessionID] = nextSm

	return marshalMessages(outMsgs)
}

// Result returns the derived key once the exchange is complete.
// Arguments:
// 0: Session ID (string)
// Returns:
// JSON object { key, fingerprint } or null
func Result(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (sessionID)"
	}
	sm, ok := sessions[args[0].String()]
	if !ok {
		return "error: session not found"
	}

	res := kex.ResultOf(sm)
	if res == nil {
		return nil // Not finished
	}

	resBytes, err := json.Marshal(map[string]string{
		"key":         hex.EncodeToString(res.Key),
		"fingerprint": hex.EncodeToString(kdf.Fingerprint(res.Key)),
	})
	if err != nil {
		return fmt.Sprintf("error: marshal result failed: %v", err)
	}
	return string(resBytes)
}

// Helpers

type SimplePartyID struct {
	IDVal      string
	MonikerVal string
}

func (p *SimplePartyID) ID() string      { return p.IDVal }
func (p *SimplePartyID) Moniker() string { return p.MonikerVal }

func encodeMessages(msgs []ecdh.Message) []interface{} {
	var out []interface{} // JS array
	for _, m := range msgs {
		to := ""
		if m.To() != nil {
			to = m.To().ID()
		}
		out = append(out, map[string]interface{}{
			"from":  m.From().ID(),
			"to":    to,
			"data":  hex.EncodeToString(m.Payload()),
			"type":  m.Type(),
			"round": m.RoundNumber(),
		})
	}
	return out
}

func marshalMessages(msgs []ecdh.Message) string {
	b, _ := json.Marshal(encodeMessages(msgs))
	return string(b)
}
