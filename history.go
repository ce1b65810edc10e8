package pso

import (
	"database/sql"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is one iteration's entry in the convergence history.
type Snapshot struct {
	Iter int
	// BestCost and BestPos are the swarm-wide best at the end of the
	// iteration.
	BestCost float64
	BestPos  []float64
	// MeanPBestCost and MeanNeighborCost summarize swarm spread.
	MeanPBestCost    float64
	MeanNeighborCost float64
	// Pos and Vel are full matrix copies, populated only when snapshot
	// recording is enabled.
	Pos *mat.Dense
	Vel *mat.Dense
}

// History is the append-only record of an optimization run.  Entries are
// never mutated after append.
type History struct {
	snaps []Snapshot
}

func (h *History) append(s Snapshot) { h.snaps = append(h.snaps, s) }

// Len returns the number of recorded iterations.
func (h *History) Len() int { return len(h.snaps) }

// At returns the i'th snapshot.
func (h *History) At(i int) Snapshot { return h.snaps[i] }

// Last returns the most recent snapshot, if any.
func (h *History) Last() (Snapshot, bool) {
	if len(h.snaps) == 0 {
		return Snapshot{}, false
	}
	return h.snaps[len(h.snaps)-1], true
}

// BestCosts returns the per-iteration best cost sequence.
func (h *History) BestCosts() []float64 {
	costs := make([]float64, len(h.snaps))
	for i, s := range h.snaps {
		costs[i] = s.BestCost
	}
	return costs
}

const (
	// TblParticles is the name of the sql database table that contains
	// positions and costs for particles for each iteration.
	TblParticles = "swarmparticles"
	// TblParticlesBest is the name of the sql database table that contains
	// each particle's personal best position at each iteration.
	TblParticlesBest = "swarmparticlesbest"
	// TblBest is the name of the sql database table that contains the best
	// position for the entire swarm at each iteration.
	TblBest = "swarmbest"
)

// Recorder persists per-iteration swarm state to a sql database, one row per
// particle per iteration plus one swarm-best row.  Any database/sql driver
// works; tests and the psorun command use sqlite.
type Recorder struct {
	db   *sql.DB
	dims int
}

// NewRecorder creates the three tables if they don't exist.
func NewRecorder(db *sql.DB, dims int) (*Recorder, error) {
	r := &Recorder{db: db, dims: dims}

	for _, tbl := range []string{TblParticles, TblParticlesBest} {
		s := "CREATE TABLE IF NOT EXISTS " + tbl + " (particle INTEGER, iter INTEGER, val REAL"
		s += r.xdbsql("define")
		s += ");"
		if _, err := db.Exec(s); err != nil {
			return nil, fmt.Errorf("pso: create table %v: %w", tbl, err)
		}
	}

	s := "CREATE TABLE IF NOT EXISTS " + TblBest + " (iter INTEGER, val REAL"
	s += r.xdbsql("define")
	s += ");"
	if _, err := db.Exec(s); err != nil {
		return nil, fmt.Errorf("pso: create table %v: %w", TblBest, err)
	}
	return r, nil
}

func (r *Recorder) xdbsql(op string) string {
	s := ""
	for i := 0; i < r.dims; i++ {
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += fmt.Sprintf(",x%v REAL", i)
		case "x":
			s += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func pos2iface(pos []float64) []interface{} {
	iface := []interface{}{}
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

// Record writes one iteration's particle states and the swarm best.
func (r *Recorder) Record(iter int, s *Swarm, bestPos []float64, bestCost float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("pso: record iter %v: %w", iter, err)
	}

	s0 := "INSERT INTO " + TblParticles + " (particle,iter,val" + r.xdbsql("x") + ") VALUES (?,?,?" + r.xdbsql("?") + ");"
	s1 := "INSERT INTO " + TblParticlesBest + " (particle,iter,val" + r.xdbsql("x") + ") VALUES (?,?,?" + r.xdbsql("?") + ");"
	for i := 0; i < s.Len(); i++ {
		args := []interface{}{i, iter, s.Cost[i]}
		args = append(args, pos2iface(s.Pos.RawRowView(i))...)
		if _, err := tx.Exec(s0, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("pso: record iter %v: %w", iter, err)
		}

		args = []interface{}{i, iter, s.PBestCost[i]}
		args = append(args, pos2iface(s.PBestPos.RawRowView(i))...)
		if _, err := tx.Exec(s1, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("pso: record iter %v: %w", iter, err)
		}
	}

	s2 := "INSERT INTO " + TblBest + " (iter,val" + r.xdbsql("x") + ") VALUES (?,?" + r.xdbsql("?") + ");"
	args := []interface{}{iter, bestCost}
	args = append(args, pos2iface(bestPos)...)
	if _, err := tx.Exec(s2, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("pso: record iter %v: %w", iter, err)
	}

	return tx.Commit()
}
