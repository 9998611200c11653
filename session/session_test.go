/*
DESCRIPTION
  session_test.go provides testing for session state.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type call struct {
	layout string
	paths  []string
}

// spyComposer records compose calls.
type spyComposer struct {
	calls []call
	err   error
}

func (c *spyComposer) Compose(layout string, paths []string) (string, error) {
	c.calls = append(c.calls, call{layout, paths})
	if c.err != nil {
		return "", c.err
	}
	return "photos/composed/composed_" + layout + ".jpg", nil
}

func TestFullSession(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	err := s.Start("collage", 4)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	c := &spyComposer{}
	var want []string
	for i := 1; i <= 4; i++ {
		if s.NextIndex() != i {
			t.Errorf("next index: got %d, want %d", s.NextIndex(), i)
		}
		_, err = s.Finalize(c)
		if !errors.Is(err, ErrIncomplete) {
			t.Errorf("expected incomplete error before photo %d, got %v", i, err)
		}
		p := fmt.Sprintf("photos/p%d.jpg", i)
		want = append(want, p)
		err = s.Add(p)
		if err != nil {
			t.Fatalf("did not expect error adding photo %d: %v", i, err)
		}
	}
	if !s.Complete() {
		t.Fatal("expected session to be complete")
	}

	out, err := s.Finalize(c)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	again, _ := s.Finalize(c)
	if out != again || s.output != out {
		t.Errorf("unexpected outputs: %q %q %q", out, again, s.output)
	}

	wantCalls := []call{{"collage", want}}
	if !cmp.Equal(c.calls, wantCalls, cmp.AllowUnexported(call{})) {
		t.Errorf("unexpected compose calls:\n%s", cmp.Diff(wantCalls, c.calls, cmp.AllowUnexported(call{})))
	}

	err = s.Add("photos/p5.jpg")
	if !errors.Is(err, ErrComplete) {
		t.Errorf("expected complete error, got %v", err)
	}
}

func TestStartErrors(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	for _, n := range []int{0, -1} {
		err := s.Start("single", n)
		if !errors.Is(err, ErrInvalidTotal) {
			t.Errorf("expected invalid total error for %d, got %v", n, err)
		}
		if s.Active() {
			t.Errorf("session active after bad start with %d", n)
		}
	}
}

func TestInactive(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	if err := s.Add("p.jpg"); !errors.Is(err, ErrNotActive) {
		t.Errorf("expected not active error from Add, got %v", err)
	}
	if _, err := s.Finalize(&spyComposer{}); !errors.Is(err, ErrNotActive) {
		t.Errorf("expected not active error from Finalize, got %v", err)
	}
	if s.Complete() {
		t.Error("inactive session reported complete")
	}
}

func TestComposeFailure(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	s.Start("single", 1)
	s.Add("p.jpg")

	errCompose := errors.New("compose failed")
	c := &spyComposer{err: errCompose}
	_, err := s.Finalize(c)
	if !errors.Is(err, errCompose) {
		t.Errorf("expected compose error, got %v", err)
	}
	if s.output != "" {
		t.Errorf("unexpected output after failure: %q", s.output)
	}
}

func TestResetAndCopy(t *testing.T) {
	s := New((*logging.TestLogger)(t))
	s.Start("strip", 3)
	s.Add("a.jpg")
	s.Add("b.jpg")

	got := s.Captured()
	got[0] = "changed.jpg"
	if s.Captured()[0] != "a.jpg" {
		t.Error("captured paths modified through returned slice")
	}

	s.Reset()
	if s.Active() || s.Layout() != "" || s.Total() != 0 || len(s.Captured()) != 0 || s.NextIndex() != 1 {
		t.Errorf("session not cleared: %+v", s)
	}

	// Starting again discards the previous session.
	s.Start("strip", 3)
	s.Add("a.jpg")
	s.Start("single", 1)
	if len(s.Captured()) != 0 || s.Total() != 1 {
		t.Errorf("restart did not clear session: %+v", s)
	}
}
