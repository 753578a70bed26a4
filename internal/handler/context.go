package handler

type ContextKey string

var (
	RoleCtxKey  ContextKey = "role"
	SubCtxKey   ContextKey = "sub"
	MyBranchCtx ContextKey = "myBranch"
	BranchCtx   ContextKey = "branch"
	EmployeeCtx ContextKey = "employee"
)
