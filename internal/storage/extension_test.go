package storage

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestExtensionState_Set(t *testing.T) {
	tests := map[string]struct {
		initial ExtensionState
		key     string
		value   any
		expErr  bool
	}{
		"set on nil map": {
			initial: nil,
			key:     "test",
			value:   map[string]string{"foo": "bar"},
		},
		"set int value": {
			initial: ExtensionState{},
			key:     "correctAnswers",
			value:   9,
		},
		"marshal error with channel": {
			initial: ExtensionState{},
			key:     "bad",
			value:   make(chan int),
			expErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := tt.initial
			err := e.Set(tt.key, tt.value)

			if tt.expErr {
				testutil.AssertErrorContains(t, err, "marshal extension")
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := e[tt.key]; !ok {
				t.Errorf("key %q not found after Set", tt.key)
			}
		})
	}
}

func TestExtensionState_Get(t *testing.T) {
	e := ExtensionState{}
	if err := e.Set("timeSpent", 120); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	var v int
	found, err := e.Get("timeSpent", &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertEqual(t, "value", v, 120)

	found, err = e.Get("missing", &v)
	if err != nil {
		t.Errorf("unexpected error for missing key: %v", err)
	}
	testutil.AssertEqual(t, "missing found", found, false)

	var nilState ExtensionState
	found, _ = nilState.Get("anything", &v)
	testutil.AssertEqual(t, "nil state found", found, false)
}

func TestExtensionState_Get_UnmarshalError(t *testing.T) {
	e := ExtensionState{
		"bad": []byte(`{"invalid json`),
	}

	var out map[string]string
	found, err := e.Get("bad", &out)

	testutil.AssertEqual(t, "found", found, true)
	testutil.AssertErrorContains(t, err, "unmarshal extension")
}

func TestExtensionState_RoundTrip(t *testing.T) {
	e := ExtensionState{}
	_ = e.Set("correctAnswers", 9)
	_ = e.Set("totalQuestions", 10)

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var back ExtensionState
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "key count", len(back), 2)

	var correct, total int
	_, _ = back.Get("correctAnswers", &correct)
	_, _ = back.Get("totalQuestions", &total)
	testutil.AssertEqual(t, "correct answers", correct, 9)
	testutil.AssertEqual(t, "total questions", total, 10)
}
