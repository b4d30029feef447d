// Package testutil provides shared test helpers for plumberf.
//
// Database helpers (db_helpers.go):
//   - SetupTestStore: a migrated store on POSTGRES_TEST_URL, or sqlite when unset
//   - SetupTestSQLite: a migrated sqlite store in the test's temp dir
//   - SeedTrade, SeedJobVideo: insert rows directly, bypassing the lifecycle
//
// Fakes (mock_factory.go):
//   - MockPipeline: scripted lesson drafts or errors per job video
//   - MockStorage: an upload.Storage whose objects always exist unless marked missing
//   - FlakyQueue: a queue wrapper that fails the next n enqueues
//
// API mocks (mock_services.go) are testify mocks of the v1 service interfaces,
// used by the handler tests.
//
// Fixtures (fixtures.go) hold a three step sink repair draft and pointer helpers.
//
// # Usage
//
//	func TestSomething(t *testing.T) {
//	    store := testutil.SetupTestSQLite(t)
//	    trade := testutil.SeedTrade(t, store, "plumbing")
//	    jv := testutil.SeedJobVideo(t, store, trade.ID, model.StatusUploaded)
//	    ...
//	}
package testutil
