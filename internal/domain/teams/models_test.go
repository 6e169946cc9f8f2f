package teams

import (
	"errors"
	"reflect"
	"testing"
)

func TestTeamJSONTags(t *testing.T) {
	type fieldCheck struct {
		name string
		tag  string
	}
	teamType := reflect.TypeOf(Team{})
	fields := []fieldCheck{
		{"Name", "name"},
		{"Group", "group"},
		{"Attack", "attack"},
		{"Defense", "defense"},
	}
	for _, fc := range fields {
		f, ok := teamType.FieldByName(fc.name)
		if !ok {
			t.Fatalf("missing field %s", fc.name)
		}
		if tag := f.Tag.Get("json"); tag != fc.tag {
			t.Fatalf("field %s expected tag %s, got %s", fc.name, fc.tag, tag)
		}
		if tag := f.Tag.Get("yaml"); tag != fc.tag {
			t.Fatalf("field %s expected yaml tag %s, got %s", fc.name, fc.tag, tag)
		}
	}
}

func TestNewTrimsAndValidates(t *testing.T) {
	team, err := New("  Brazil ", " E ", 8, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.Name != "Brazil" || team.Group != "E" {
		t.Fatalf("expected trimmed identity, got %+v", team)
	}
}

func TestNewRejectsInvalidTeams(t *testing.T) {
	cases := []struct {
		name    string
		team    string
		group   string
		attack  int
		defense int
		want    error
	}{
		{"negative attack", "Iran", "B", -1, 4, ErrNegativeRating},
		{"negative defense", "Iran", "B", 3, -2, ErrNegativeRating},
		{"missing name", " ", "B", 3, 4, ErrMissingName},
		{"missing group", "Iran", "", 3, 4, ErrMissingGroup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.team, tc.group, tc.attack, tc.defense)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestZeroRatingsAreValid(t *testing.T) {
	if _, err := New("Panama", "G", 0, 0); err != nil {
		t.Fatalf("expected zero ratings to be accepted, got %v", err)
	}
}

func TestValidateAllReturnsFirstFailure(t *testing.T) {
	list := []Team{
		{Name: "Spain", Group: "B", Attack: 7, Defense: 7},
		{Name: "Morocco", Group: "B", Attack: -3, Defense: 6},
	}
	if err := ValidateAll(list); !errors.Is(err, ErrNegativeRating) {
		t.Fatalf("expected negative rating error, got %v", err)
	}
	if err := ValidateAll(list[:1]); err != nil {
		t.Fatalf("expected valid list, got %v", err)
	}
}
