package aggregates

import "fmt"

// WriteTxOwnership names the party that opens and commits a write's transaction.
type WriteTxOwnership string

const WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"

// ReadPolicy names where reads around an aggregate are served from.
type ReadPolicy string

// ReadPolicyTableRepoQueries: lookups and listings go to the table repos.
const ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"

// Contract is the static description an aggregate reports about itself.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

func (c Contract) String() string {
	return fmt.Sprintf("%s[tx=%s reads=%s]", c.Name, c.WriteTxOwnership, c.ReadPolicy)
}
