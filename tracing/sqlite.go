package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/idgen"
	"github.com/sarchlab/seqmap/seqmap"
)

// Entry is one row of the allocation table.
type Entry struct {
	Seq    int64
	Map    int64
	Op     string
	Key    string
	Origin int64
}

// SQLiteRecorder is a hook that stores map events in a SQLite database.
// Events are buffered and written in batches.
type SQLiteRecorder struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	batchSize int
	seq       idgen.Counter[uint64]
	entries   []Entry
}

// NewSQLiteRecorder creates a recorder writing to path + ".sqlite3". An empty
// path picks a unique name. Buffered events are flushed when the program
// exits through atexit.
func NewSQLiteRecorder(path string) *SQLiteRecorder {
	r := &SQLiteRecorder{
		dbName:    path,
		batchSize: 10000,
	}

	r.Init()

	atexit.Register(func() { r.Flush() })

	return r
}

// Init creates the database file and the allocation table.
func (r *SQLiteRecorder) Init() {
	if r.dbName == "" {
		r.dbName = "seqmap_recording_" + xid.New().String()
	}

	filename := r.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.DB = db

	r.mustExecute(`
		create table allocation
		(
			seq       integer primary key,
			map       integer not null,
			op        varchar(20) not null,
			alloc_key varchar(100),
			origin    integer not null
		);
	`)
	r.mustExecute(`create index allocation_map_index on allocation (map);`)

	stmt, err := r.Prepare(
		"INSERT INTO allocation VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		panic(err)
	}

	r.statement = stmt
}

// Func buffers the map event carried by ctx.
func (r *SQLiteRecorder) Func(ctx hooking.HookCtx) {
	evt, ok := ctx.Item.(seqmap.Event)
	if !ok {
		return
	}

	seq, ok := r.seq.Next()
	if !ok {
		panic("recording sequence exhausted")
	}

	entry := Entry{
		Seq:    int64(seq),
		Map:    int64(evt.Map),
		Op:     ctx.Pos.Name,
		Origin: int64(evt.Origin),
	}
	if evt.Key != nil {
		entry.Key = fmt.Sprint(evt.Key)
	}

	r.entries = append(r.entries, entry)
	if len(r.entries) >= r.batchSize {
		r.Flush()
	}
}

// Flush writes all buffered events to the database.
func (r *SQLiteRecorder) Flush() {
	if len(r.entries) == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	for _, e := range r.entries {
		_, err := r.statement.Exec(e.Seq, e.Map, e.Op, e.Key, e.Origin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to insert entry: %+v\n", e)
			panic(err)
		}
	}

	r.entries = nil
}

// Close flushes the buffer and closes the database.
func (r *SQLiteRecorder) Close() error {
	r.Flush()

	if err := r.statement.Close(); err != nil {
		return err
	}

	return r.DB.Close()
}

func (r *SQLiteRecorder) mustExecute(query string) sql.Result {
	res, err := r.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
