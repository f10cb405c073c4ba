package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/network"
)

// InsertAnalysis stores one run with all of its network and matching edges
// in a single transaction.
func (db *DB) InsertAnalysis(res *analysis.Result) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO analyses(run_id, match_id, home_team, away_team, event_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.RunID, res.MatchID, res.Teams[0], res.Teams[1], res.EventCount,
		res.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert analysis %s: %w", res.RunID, err)
	}

	edgeStmt, err := tx.Prepare(`
		INSERT INTO network_edges(run_id, network, team, opponent, source, target, weight)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	insertEdges := func(g *model.RelationGraph) error {
		if g == nil {
			return nil
		}
		for _, e := range g.Edges {
			if _, err := edgeStmt.Exec(res.RunID, string(g.Kind), g.Team, g.Opponent, e.Source, e.Target, e.Weight); err != nil {
				return fmt.Errorf("insert %s edge %s->%s: %w", g.Kind, e.Source, e.Target, err)
			}
		}
		return nil
	}

	for _, p := range res.Passes {
		if err := insertEdges(p.Graph); err != nil {
			return err
		}
	}

	pairStmt, err := tx.Prepare(`
		INSERT INTO matching_edges(run_id, network, team, opponent, attacker, defender, weight)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer pairStmt.Close()

	for _, c := range res.Confrontations {
		if err := insertEdges(c.Graph); err != nil {
			return err
		}
		for _, p := range c.Matching.Pairs {
			if _, err := pairStmt.Exec(res.RunID, string(c.Kind), c.Attacking, c.Defending, p.A, p.B, p.Weight); err != nil {
				return fmt.Errorf("insert %s matching %s-%s: %w", c.Kind, p.A, p.B, err)
			}
		}
	}
	return tx.Commit()
}

// ListAnalyses returns every stored run, newest first.
func (db *DB) ListAnalyses() ([]model.AnalysisSummary, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, match_id, home_team, away_team, event_count, created_at
		FROM analyses ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisSummary
	for rows.Next() {
		var s model.AnalysisSummary
		if err := rows.Scan(&s.RunID, &s.MatchID, &s.HomeTeam, &s.AwayTeam, &s.EventCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestAnalysis returns the newest run for a match, or nil if there is none.
func (db *DB) LatestAnalysis(matchID int64) (*model.AnalysisSummary, error) {
	var s model.AnalysisSummary
	err := db.conn.QueryRow(`
		SELECT run_id, match_id, home_team, away_team, event_count, created_at
		FROM analyses WHERE match_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, matchID).
		Scan(&s.RunID, &s.MatchID, &s.HomeTeam, &s.AwayTeam, &s.EventCount, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type edgeKey struct {
	network model.NetworkKind
	team    string
}

// LoadResult rebuilds a stored run. Graphs and matchings are restored from
// their edges; centrality and strongest opponents are recomputed. Per-rule
// statistics are not persisted and come back empty. Returns nil if runID is
// unknown.
func (db *DB) LoadResult(runID string) (*analysis.Result, error) {
	var (
		res       analysis.Result
		createdAt string
	)
	err := db.conn.QueryRow(`
		SELECT run_id, match_id, home_team, away_team, event_count, created_at
		FROM analyses WHERE run_id = ?`, runID).
		Scan(&res.RunID, &res.MatchID, &res.Teams[0], &res.Teams[1], &res.EventCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if res.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	edges, err := db.loadEdges(`
		SELECT network, team, source, target, weight
		FROM network_edges WHERE run_id = ? ORDER BY source, target`, runID)
	if err != nil {
		return nil, fmt.Errorf("load network edges: %w", err)
	}
	pairs, err := db.loadEdges(`
		SELECT network, team, attacker, defender, weight
		FROM matching_edges WHERE run_id = ? ORDER BY attacker, defender`, runID)
	if err != nil {
		return nil, fmt.Errorf("load matching edges: %w", err)
	}

	for i, team := range res.Teams {
		opponent := res.Teams[1-i]

		g := network.FromEdges(model.NetworkPass, team, "", edges[edgeKey{model.NetworkPass, team}])
		res.Passes = append(res.Passes, analysis.TeamPasses{Team: team, Graph: g, Centrality: network.Centrality(g)})

		for _, kind := range []model.NetworkKind{model.NetworkDuel, model.NetworkProximity} {
			key := edgeKey{kind, team}
			g := network.FromEdges(kind, team, opponent, edges[key])
			var m model.Matching
			for _, e := range pairs[key] {
				m.Pairs = append(m.Pairs, model.Pair{A: e.Source, B: e.Target, Weight: e.Weight})
			}
			res.Confrontations = append(res.Confrontations, analysis.Confrontation{
				Kind:      kind,
				Attacking: team,
				Defending: opponent,
				Graph:     g,
				Matching:  m,
				Strongest: network.StrongestOpponents(g),
			})
		}
	}
	return &res, nil
}

func (db *DB) loadEdges(query, runID string) (map[edgeKey][]model.Edge, error) {
	rows, err := db.conn.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[edgeKey][]model.Edge)
	for rows.Next() {
		var (
			kind string
			team string
			e    model.Edge
		)
		if err := rows.Scan(&kind, &team, &e.Source, &e.Target, &e.Weight); err != nil {
			return nil, err
		}
		key := edgeKey{model.NetworkKind(kind), team}
		out[key] = append(out[key], e)
	}
	return out, rows.Err()
}

// DeleteMatch removes every stored run for a match and returns how many runs
// were deleted.
func (db *DB) DeleteMatch(matchID int64) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, table := range []string{"network_edges", "matching_edges"} {
		q := fmt.Sprintf(`DELETE FROM %s WHERE run_id IN (SELECT run_id FROM analyses WHERE match_id = ?)`, table)
		if _, err := tx.Exec(q, matchID); err != nil {
			return 0, fmt.Errorf("delete %s for match %d: %w", table, matchID, err)
		}
	}
	r, err := tx.Exec(`DELETE FROM analyses WHERE match_id = ?`, matchID)
	if err != nil {
		return 0, fmt.Errorf("delete analyses for match %d: %w", matchID, err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// QueryRaw runs an arbitrary query and returns the column names and every row
// rendered as strings. NULL values are rendered as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
