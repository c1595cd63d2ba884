package mysql

// One row per (location, date); repeated failures bump the counter and keep
// the latest status and reason.
const insertMissSQL = `
INSERT INTO fetch_misses (location_id, menu_date, http_status, reason)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  hits        = hits + 1,
  seen_at     = CURRENT_TIMESTAMP
`

const listMissesSQL = `
SELECT location_id, menu_date, http_status, reason, hits, seen_at
FROM fetch_misses
ORDER BY seen_at DESC, location_id
LIMIT ?
`
