package driver

const (
	SaveDatasetGraphQuery = `
		UNWIND $edges AS edge
		MERGE (s:Person {dataset_id: $dataset_id, name: edge.source})
		MERGE (t:Person {dataset_id: $dataset_id, name: edge.target})
		MERGE (s)-[r:CONNECTED {dataset_id: $dataset_id}]->(t)
		SET r.source_column = $source_column,
			r.target_column = $target_column,
			r.exported_at = $exported_at
		RETURN count(r) AS edges
	`

	SaveCommunityQuery = `
		UNWIND $members AS member
		MATCH (p:Person {dataset_id: $dataset_id, name: member})
		SET p.community = $community
		RETURN count(p) AS members
	`

	DeleteDatasetGraphQuery = `
		MATCH (p:Person {dataset_id: $dataset_id})
		DETACH DELETE p
	`
)
