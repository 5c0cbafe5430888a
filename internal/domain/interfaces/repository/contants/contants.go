package contants

const SESSIONS_COLLECTION = "demo_sessions"
