package database

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func NewNeo4j(ctx context.Context, uri, username, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	return driver, nil
}

// MigrateNeo4j makes sure the member id lookup used by the referral
// traversal is backed by an index.
func MigrateNeo4j(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	_, err := neo4j.ExecuteQuery(ctx, driver,
		"CREATE CONSTRAINT member_id IF NOT EXISTS FOR (m:Member) REQUIRE m.id IS UNIQUE",
		nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(database),
	)
	return err
}
