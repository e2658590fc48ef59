package option_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/mdkit/core/option"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestOptionMaybe(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.core")
	defer teardown()
	//
	var y1, y2, y3 interface{}
	x := option.SomeInt(42)
	t.Logf("x = %v, x.T = %T, x.unwrap = %v", x, x, x.Unwrap())
	y1, _ = x.Match(option.Maybe{
		option.None: 7,
		option.Some: x.Unwrap() + 1,
	})
	//
	x = option.Int()
	y2, _ = x.Match(option.Maybe{
		option.None: "No Value",
		option.Some: stringify,
	})
	//
	x = option.SomeInt(42)
	y3, _ = x.Match(option.Maybe{
		option.None:  "No Value",
		option.Some:  nonsense,
		option.Error: stringify,
	})
	//
	t.Logf("y1 = %d, y2 = %s, y3 = %v", y1, y2, y3)
	if y1.(int) != 43 {
		t.Errorf("expected SomeInt(42) to match to 43, is %d", y1)
	}
	if y2.(string) != "No Value" {
		t.Errorf("expected unset int to match to No Value, is %v", y2)
	}
	if y3 != "Value = 42" {
		t.Errorf("expected SomeInt(42) to match to Value = 42, is %v", y3)
	}
}

func TestOptionZeroValueIsNone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.core")
	defer teardown()
	//
	var prio option.IntT
	if !prio.IsNone() {
		t.Errorf("expected zero value of IntT to be unset")
	}
	if option.SomeInt(0).IsNone() {
		t.Errorf("expected SomeInt(0) to be set")
	}
	if prio.Equals(0) {
		t.Errorf("expected unset int not to equal 0")
	}
	if prio.String() != "Int.None" {
		t.Errorf("expected unset int to print as Int.None, is %s", prio)
	}
}

func TestOptionErrorCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.core")
	defer teardown()
	//
	_, err := option.SomeInt(1).Match(option.Maybe{option.None: 7})
	if !errors.Is(err, option.ErrCannotMatchValue) {
		t.Errorf("expected ErrCannotMatchValue, got %v", err)
	}
	y, err := option.SomeInt(1).Match(option.Maybe{
		option.None:  7,
		option.Error: "caught",
	})
	if err != nil || y != "caught" {
		t.Errorf("expected missing Some case to be caught, is %v, %v", y, err)
	}
}

func TestOptionUnsetWithoutNoneCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdkit.core")
	defer teardown()
	//
	_, err := option.Int().Match(option.Maybe{option.Some: 1})
	if !errors.Is(err, option.ErrCannotMatchUnsetValue) {
		t.Errorf("expected ErrCannotMatchUnsetValue, got %v", err)
	}
	_, err = option.Match(option.Int(), 42)
	if !errors.Is(err, option.ErrNoSuchMatchPattern) {
		t.Errorf("expected ErrNoSuchMatchPattern, got %v", err)
	}
}

// ---------------------------------------------------------------------------

func nonsense(x interface{}) (interface{}, error) {
	return nil, errors.New("ERROR")
}

func stringify(x interface{}) (interface{}, error) {
	return fmt.Sprintf("Value = %v", x.(option.IntT).Unwrap()), nil
}
