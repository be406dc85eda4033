package mysql

const insertDecisionSQL = `
INSERT INTO review_decisions
  (entity_kind, entity_id, action, actor, reason, target_collection, target_id, notified, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP(3)))
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; the id breaks ties between decisions in the same millisecond.
const listDecisionsSQL = `
SELECT
  id,
  entity_kind,
  entity_id,
  action,
  actor,
  reason,
  target_collection,
  target_id,
  notified,
  created_at
FROM review_decisions
WHERE (? = '' OR entity_id = ?)
ORDER BY created_at DESC, id DESC
LIMIT ?
`
