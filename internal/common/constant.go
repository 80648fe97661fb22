package common

// SessionMetadataKey is the metadata key under which the database-backed
// session store keeps the active user id.
const SessionMetadataKey = "session.user_id"
