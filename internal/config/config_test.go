package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/quattor/release-helper/pkg/model"
)

func testViper() *viper.Viper {
	v := viper.New()
	v.Set("token", "deadbeef")
	v.Set("orgs", []string{"quattor"})
	return v
}

func TestLoad(t *testing.T) {
	v := testViper()
	v.Set("repos", []string{"quattor/aquilon"})
	v.Set("backlog-days", 45)
	v.Set("labels", map[string]string{"bug": "ef2929"})

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Token != "deadbeef" {
		t.Errorf("token %q", cfg.Token)
	}
	if cfg.BacklogDays != 45 {
		t.Errorf("backlog days %d, want 45", cfg.BacklogDays)
	}
	if cfg.Labels["bug"] != "ef2929" {
		t.Errorf("labels %v", cfg.Labels)
	}
}

func TestLoad_RequiresToken(t *testing.T) {
	v := viper.New()
	v.Set("orgs", []string{"quattor"})

	if _, err := Load(v); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestLoad_RequiresTarget(t *testing.T) {
	v := viper.New()
	v.Set("token", "deadbeef")

	if _, err := Load(v); err == nil {
		t.Fatal("expected error without orgs or repos")
	}
}

func TestLoad_BadFilter(t *testing.T) {
	v := testViper()
	v.Set("white", []string{"("})

	if _, err := Load(v); err == nil {
		t.Fatal("expected error for invalid filter pattern")
	}
}

func TestParseSchedule(t *testing.T) {
	data := []byte(`releases:
  "16.2":
    start: 2015-12-01
    rcs: 2016-01-25
    target: 2016-02-22
  "16.4":
    start: 2016-02-01
    rcs: 2016-03-21
    target: 2016-04-25
`)

	schedule, err := ParseSchedule(data)
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	if len(schedule) != 2 {
		t.Fatalf("schedule has %d entries, want 2", len(schedule))
	}

	entry := schedule.Entry("16.2")
	if entry == nil {
		t.Fatal("missing 16.2 entry")
	}
	if want := time.Date(2016, 2, 22, 0, 0, 0, 0, time.UTC); !entry.Target.Equal(want) {
		t.Errorf("16.2 target %s, want %s",
			entry.Target.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestParseSchedule_BadKey(t *testing.T) {
	data := []byte(`releases:
  not-a-milestone:
    target: 2016-02-22
`)

	if _, err := ParseSchedule(data); err == nil {
		t.Fatal("expected error for non-milestone schedule key")
	}
}

func TestFilterRepos(t *testing.T) {
	v := testViper()
	v.Set("white", []string{"^aquilon", "template"})
	v.Set("black", []string{"deprecated"})

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	repos := []model.RepoRef{
		{Owner: "quattor", Name: "aquilon"},
		{Owner: "quattor", Name: "aquilon-protocols"},
		{Owner: "quattor", Name: "template-library-core"},
		{Owner: "quattor", Name: "template-library-deprecated"},
		{Owner: "quattor", Name: "unrelated"},
	}

	kept := cfg.FilterRepos(repos)

	want := []string{"aquilon", "aquilon-protocols", "template-library-core"}
	if len(kept) != len(want) {
		t.Fatalf("kept %v, want %v", kept, want)
	}
	for i, name := range want {
		if kept[i].Name != name {
			t.Errorf("kept[%d] = %s, want %s", i, kept[i].Name, name)
		}
	}
}
