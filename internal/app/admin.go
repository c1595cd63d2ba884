package app

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"nutricheck/internal/adapters/observability"
	"nutricheck/internal/domain"
)

var passcodeFormat = regexp.MustCompile(`^\d{4}$`)

type GateOptions struct {
	Passcode    string
	MaxAttempts int
	Lockout     time.Duration
	Now         func() time.Time
}

// PasscodeGate is the admin lockout counter, kept per client in a Cache.
type PasscodeGate struct {
	store    domain.Cache
	passcode string
	max      int
	lockout  time.Duration
	now      func() time.Time
}

func NewPasscodeGate(store domain.Cache, o GateOptions) *PasscodeGate {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Lockout <= 0 {
		o.Lockout = 5 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &PasscodeGate{store: store, passcode: o.Passcode, max: o.MaxAttempts, lockout: o.Lockout, now: o.Now}
}

// Check validates input for client. Errors are store failures only; a
// rejected passcode is reported in the result.
func (g *PasscodeGate) Check(ctx context.Context, client, input string) (domain.PasscodeResult, error) {
	res, err := g.check(ctx, client, input)
	if err == nil {
		observability.ObserveAdmin(res.Outcome)
	}
	return res, err
}

func (g *PasscodeGate) check(ctx context.Context, client, input string) (domain.PasscodeResult, error) {
	if g.passcode == "" {
		return domain.PasscodeResult{Error: "Admin gate disabled", Outcome: "disabled"}, nil
	}

	key := attemptsKey(client)
	var st domain.AttemptState
	if _, err := g.store.Get(ctx, key, &st); err != nil {
		return domain.PasscodeResult{}, fmt.Errorf("load attempts: %w", err)
	}
	now := g.now()

	// malformed input is not counted as an attempt
	if !passcodeFormat.MatchString(input) {
		return domain.PasscodeResult{Error: "Invalid passcode format", Remaining: g.remaining(st, now), Outcome: "invalid"}, nil
	}

	since := now.Sub(st.LastFailed)
	if st.Failed >= g.max {
		if since < g.lockout {
			wait := g.lockout - since
			return domain.PasscodeResult{
				Error:      fmt.Sprintf("Too many failed attempts. Try again in %d seconds.", int(math.Ceil(wait.Seconds()))),
				RetryAfter: wait,
				Outcome:    "locked",
			}, nil
		}
		// lockout served, start over
		st = domain.AttemptState{}
	}

	if input == g.passcode {
		if st.Failed > 0 {
			if err := g.store.Del(ctx, key); err != nil {
				return domain.PasscodeResult{}, fmt.Errorf("reset attempts: %w", err)
			}
		}
		return domain.PasscodeResult{Success: true, Remaining: g.max, Outcome: "ok"}, nil
	}

	st.Failed++
	st.LastFailed = now
	if err := g.store.Set(ctx, key, st, int(math.Ceil(g.lockout.Seconds()))); err != nil {
		return domain.PasscodeResult{}, fmt.Errorf("store attempts: %w", err)
	}
	log.Warn().Str("client", client).Int("failed", st.Failed).Msg("admin passcode rejected")
	return domain.PasscodeResult{Error: "Incorrect passcode", Remaining: max(0, g.max-st.Failed), Outcome: "wrong"}, nil
}

// Remaining returns how many attempts client has left before lockout.
func (g *PasscodeGate) Remaining(ctx context.Context, client string) (int, error) {
	var st domain.AttemptState
	if _, err := g.store.Get(ctx, attemptsKey(client), &st); err != nil {
		return 0, err
	}
	return g.remaining(st, g.now()), nil
}

func (g *PasscodeGate) remaining(st domain.AttemptState, now time.Time) int {
	if st.Failed >= g.max && now.Sub(st.LastFailed) >= g.lockout {
		return g.max
	}
	return max(0, g.max-st.Failed)
}

func attemptsKey(client string) string { return "admin:attempts:" + client }
