// Package requests persists the villager's document requests on the device.
//
// Repository is implemented by SQLiteRepository, which works over a
// dbx.DBTX (either *sql.DB or *sql.Tx) against the tables created by the
// client migrations, and by MemoryRepository for tests and throwaway runs.
//
//	repo := requests.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, &req)
//	list, _ := repo.List(ctx)
//	one, _ := repo.GetByID(ctx, req.ID)
package requests
