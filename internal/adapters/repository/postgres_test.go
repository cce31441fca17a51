package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

func TestPostgresRepositoryGetByExactType(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"name", "type", "class", "ttl", "rdata"}).
		AddRow("alice.users.zeus.gent", uint16(domain.TypeA), uint16(domain.ClassIN), int32(300), []byte{10, 0, 0, 1})

	mock.ExpectQuery(`SELECT name, type, class, ttl, rdata FROM records WHERE LOWER\(name\) = LOWER\(\$1\) AND type = \$2 AND class = \$3`).
		WithArgs("alice.users.zeus.gent", uint16(domain.TypeA), uint16(domain.ClassIN)).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	qtype := domain.TypeA
	got, err := repo.Get(context.Background(), domain.ParseName("alice.users.zeus.gent"), &qtype, domain.ClassIN)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || got[0].Type != domain.TypeA || string(got[0].RData) != string([]byte{10, 0, 0, 1}) {
		t.Fatalf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryGetDecodesCNAMERData(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	var w bytesWriterStub
	cnameWire := w.encodeName(domain.ParseName("bob.users.zeus.gent"))

	rows := sqlmock.NewRows([]string{"name", "type", "class", "ttl", "rdata"}).
		AddRow("alice.users.zeus.gent", uint16(domain.TypeCNAME), uint16(domain.ClassIN), int32(60), cnameWire)

	mock.ExpectQuery(`SELECT name, type, class, ttl, rdata FROM records WHERE LOWER\(name\) = LOWER\(\$1\) AND class = \$2`).
		WithArgs("alice.users.zeus.gent", uint16(domain.ClassIN)).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	got, err := repo.Get(context.Background(), domain.ParseName("alice.users.zeus.gent"), nil, domain.ClassIN)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || !got[0].CNAME.Equal(domain.ParseName("bob.users.zeus.gent")) {
		t.Fatalf("got %+v, CNAME field should be decoded from stored rdata", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryGetSuffix(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Rows come back from the driver already sorted descending by the
	// ORDER BY clause; the mock just has to return them in that order
	// and the regex has to match the clause being present.
	rows := sqlmock.NewRows([]string{"name", "type", "class", "ttl", "rdata"}).
		AddRow("carol.users.zeus.gent", uint16(domain.TypeA), uint16(domain.ClassIN), int32(300), []byte{3, 3, 3, 3}).
		AddRow("bob.users.zeus.gent", uint16(domain.TypeA), uint16(domain.ClassIN), int32(300), []byte{2, 2, 2, 2}).
		AddRow("alice.users.zeus.gent", uint16(domain.TypeA), uint16(domain.ClassIN), int32(300), []byte{1, 2, 3, 4})

	mock.ExpectQuery(`SELECT name, type, class, ttl, rdata FROM records WHERE class = \$2 AND \(LOWER\(name\) = LOWER\(\$1\) OR LOWER\(name\) LIKE '%.' \|\| LOWER\(\$1\)\) ORDER BY name DESC`).
		WithArgs("users.zeus.gent", uint16(domain.ClassIN)).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	got, err := repo.GetSuffix(context.Background(), domain.ParseName("users.zeus.gent"), domain.ClassIN)
	if err != nil {
		t.Fatalf("GetSuffix: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %+v", got)
	}
	wantOrder := []string{"carol.users.zeus.gent", "bob.users.zeus.gent", "alice.users.zeus.gent"}
	for i, want := range wantOrder {
		if got[i].Name.String() != want {
			t.Fatalf("record %d = %q, want descending-name order %v", i, got[i].Name.String(), wantOrder)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO records \(name, type, class, ttl, rdata\) VALUES \(\$1, \$2, \$3, \$4, \$5\)`).
		WithArgs("alice.users.zeus.gent", uint16(domain.TypeA), uint16(domain.ClassIN), int32(300), []byte{1, 2, 3, 4}).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgresRepository(db)
	rr := domain.RR{Name: domain.ParseName("alice.users.zeus.gent"), Type: domain.TypeA, Class: domain.ClassIN, TTL: 300, RData: []byte{1, 2, 3, 4}}
	if err := repo.Insert(context.Background(), rr); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryDeleteWithRData(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM records WHERE LOWER\(name\) = LOWER\(\$1\) AND class = \$2 AND type = \$3 AND rdata = \$4`).
		WithArgs("alice.users.zeus.gent", uint16(domain.ClassIN), uint16(domain.TypeA), []byte{1, 2, 3, 4}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	qtype := domain.TypeA
	if err := repo.Delete(context.Background(), domain.ParseName("alice.users.zeus.gent"), &qtype, domain.ClassIN, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryDeleteWholeRRset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM records WHERE LOWER\(name\) = LOWER\(\$1\) AND class = \$2 AND type = \$3`).
		WithArgs("alice.users.zeus.gent", uint16(domain.ClassIN), uint16(domain.TypeA)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewPostgresRepository(db)
	qtype := domain.TypeA
	if err := repo.Delete(context.Background(), domain.ParseName("alice.users.zeus.gent"), &qtype, domain.ClassIN, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryPing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()

	repo := NewPostgresRepository(db)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

// bytesWriterStub builds the wire-encoded name bytes a CNAME's stored
// rdata actually contains, without importing the wire package's unexported
// Writer internals from outside its package.
type bytesWriterStub struct{}

func (bytesWriterStub) encodeName(n domain.Name) []byte {
	var out []byte
	for _, label := range n {
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	return out
}
