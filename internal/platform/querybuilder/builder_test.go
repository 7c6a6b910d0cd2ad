package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("event_code", "event_name").
		From("events").
		Where(Eq("is_active", true)).
		OrderBy("event_code").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT event_code, event_name FROM events WHERE is_active = $1 ORDER BY event_code LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinsAndExpr(t *testing.T) {
	query, args, err := Select("m.machine_name", "COUNT(*) AS play_count").
		From("high_scores_archive h").
		Join("machines m", "h.machine_id = m.machine_id").
		LeftJoin("players p", "h.player_id = p.player_id").
		Where(Eq("h.event_code", "EV1"), Expr("h.date_set >= NOW() - (? * INTERVAL '1 day')", 7)).
		GroupBy("m.machine_name").
		OrderBy("play_count DESC").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT m.machine_name, COUNT(*) AS play_count FROM high_scores_archive h " +
		"JOIN machines m ON h.machine_id = m.machine_id " +
		"LEFT JOIN players p ON h.player_id = p.player_id " +
		"WHERE h.event_code = $1 AND h.date_set >= NOW() - ($2 * INTERVAL '1 day') " +
		"GROUP BY m.machine_name ORDER BY play_count DESC"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "EV1" || args[1] != 7 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresColumnsAndTable(t *testing.T) {
	if _, _, err := Select().From("events").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
	if _, _, err := Select("1").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
	if _, _, err := Select("1").From("a").Join("", "x").ToSQL(); err == nil {
		t.Fatalf("expected error for incomplete join")
	}
}

func TestSelectModel(t *testing.T) {
	type row struct {
		Name     string `db:"name"`
		Score    int64  `db:"score"`
		Ignored  string `db:"-"`
		NoTag    string
		internal string `db:"internal"`
	}
	_ = row{}.internal

	query, _, err := SelectModel(row{}).From("game_champions").OrderBy("score DESC").ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	want := "SELECT name, score FROM game_champions ORDER BY score DESC"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

func TestColumnsFromModel_RejectsNonStruct(t *testing.T) {
	if _, err := ColumnsFromModel(42); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}
