package score

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/round"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotOpen = errors.New("score database is not open")

type DefaultScorer struct {
	db *sql.DB
}

type InputsCompact struct {
	Lane  game.Lane
	Times []time.Duration
}

func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if int(i.Lane)+1 > laneCount {
			laneCount = int(i.Lane) + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for l := range ins {
		ins[l].Lane = game.Lane(l)
		ins[l].Times = []time.Duration{}
	}
	for _, i := range inputs {
		ins[i.Lane].Times = append(ins[i.Lane].Times, i.Time)
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Lane, Time: t})
		}
	}
	return ins
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	initStatement := `
	create table if not exists scores
	  (
		  id text not null primary key,
		  sum text not null,
		  score integer,
		  max_combo integer,
		  cleared integer,
		  played_at integer,
		  inputs blob
	  );
	create index if not exists scores_sum on scores(sum);
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create scores table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func (s *DefaultScorer) Save(c *game.Chart, summary round.Summary) (string, error) {
	if nil == s.db {
		return "", ErrNotOpen
	}
	data, err := json.Marshal(compactInputs(summary.Inputs))
	if nil != err {
		return "", fmt.Errorf("unable to marshal inputs: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		"insert into scores(id, sum, score, max_combo, cleared, played_at, inputs) values(?, ?, ?, ?, ?, ?, ?)",
		id, c.Hash(), summary.Score, summary.MaxCombo, summary.Cleared, time.Now().UnixNano(), data,
	)
	if nil != err {
		return "", fmt.Errorf("unable to save score: %w", err)
	}
	return id, nil
}

func (s *DefaultScorer) scan(rows *sql.Rows) (History, error) {
	var h History
	var data []byte
	var playedAt int64
	if err := rows.Scan(&h.ID, &h.Sum, &h.Score, &h.MaxCombo, &h.Cleared, &playedAt, &data); nil != err {
		return h, err
	}
	var ns []InputsCompact
	if err := json.Unmarshal(data, &ns); nil != err {
		return h, fmt.Errorf("unable to unmarshal input history: %w", err)
	}
	h.Inputs = uncompactInputs(ns)
	h.PlayedAt = time.Unix(0, playedAt)
	return h, nil
}

func (s *DefaultScorer) query(q string, args ...interface{}) []History {
	histories := []History{}
	if nil == s.db {
		log.Println(ErrNotOpen)
		return histories
	}
	rows, err := s.db.Query(q, args...)
	if nil != err {
		log.Println("unable to load scores", err)
		return histories
	}
	defer rows.Close()
	for rows.Next() {
		h, err := s.scan(rows)
		if nil != err {
			log.Println("skipping score", err)
			continue
		}
		histories = append(histories, h)
	}
	return histories
}

const columns = "id, sum, score, max_combo, cleared, played_at, inputs"

func (s *DefaultScorer) Load(c *game.Chart) []History {
	return s.query("select "+columns+" from scores where sum = ? order by played_at, rowid", c.Hash())
}

func (s *DefaultScorer) Best(c *game.Chart) (History, bool) {
	hs := s.query("select "+columns+" from scores where sum = ? order by score desc, played_at limit 1", c.Hash())
	if len(hs) == 0 {
		return History{}, false
	}
	return hs[0], true
}

func (s *DefaultScorer) Score(c *game.Chart, history *History, settings round.Settings) (Score, error) {
	summary, err := round.Replay(settings, c, history.Inputs)
	if nil != err {
		return Score{}, fmt.Errorf("unable to replay %v: %w", history.ID, err)
	}
	return Score{
		Score:     summary.Score,
		MaxCombo:  summary.MaxCombo,
		Cleared:   summary.Cleared,
		MissCount: summary.Stats.Counts[game.Missed],
		Mean:      summary.Stats.Mean(),
	}, nil
}

type recorder struct {
	scorer *DefaultScorer
	chart  *game.Chart
}

// Recorder saves every round of chart that ends
func (s *DefaultScorer) Recorder(c *game.Chart) round.Recorder {
	return &recorder{scorer: s, chart: c}
}

func (r *recorder) RoundEnded(summary round.Summary) {
	id, err := r.scorer.Save(r.chart, summary)
	if nil != err {
		log.Println(err)
		return
	}
	log.Println("saved round", id, "score", summary.Score)
}
