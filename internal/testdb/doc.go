// Package testdb provides utilities for database integration tests: locating
// the test database from the environment, opening and migrating it, running
// each test inside a rolled-back transaction, and seeding workspace rows.
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t) // skips when no database is configured
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			testdb.InsertWorkspaces(t, tx, map[int64]string{1: "alpha"})
//			...
//		})
//	}
package testdb
