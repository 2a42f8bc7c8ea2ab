package server

import "rds/internal/rpc"

// Entity-kind CRUD endpoints, namespaced rds/<kind>/<verb>.
const (
	DatasetCreate Endpoint = "rds/dataset/create"
	DatasetGetOne Endpoint = "rds/dataset/get_one"
	DatasetGetAll Endpoint = "rds/dataset/get_all"
	DatasetUpdate Endpoint = "rds/dataset/update"
	DatasetDelete Endpoint = "rds/dataset/delete"

	RuntimeCreate Endpoint = "rds/runtime/create"
	RuntimeGetOne Endpoint = "rds/runtime/get_one"
	RuntimeGetAll Endpoint = "rds/runtime/get_all"
	RuntimeUpdate Endpoint = "rds/runtime/update"
	RuntimeDelete Endpoint = "rds/runtime/delete"

	UserCodeCreate Endpoint = "rds/usercode/create"
	UserCodeGetOne Endpoint = "rds/usercode/get_one"
	UserCodeGetAll Endpoint = "rds/usercode/get_all"
	UserCodeUpdate Endpoint = "rds/usercode/update"
	UserCodeDelete Endpoint = "rds/usercode/delete"

	CustomFunctionCreate Endpoint = "rds/customfunction/create"
	CustomFunctionGetOne Endpoint = "rds/customfunction/get_one"
	CustomFunctionGetAll Endpoint = "rds/customfunction/get_all"
	CustomFunctionUpdate Endpoint = "rds/customfunction/update"
	CustomFunctionDelete Endpoint = "rds/customfunction/delete"

	// Job lifecycle verbs, beyond plain CRUD.
	JobSubmit      Endpoint = "rds/job/submit"
	JobGetOne      Endpoint = "rds/job/get_one"
	JobGetAll      Endpoint = "rds/job/get_all"
	JobApprove     Endpoint = "rds/job/approve"
	JobReject      Endpoint = "rds/job/reject"
	JobRun         Endpoint = "rds/job/run"
	JobRunPrivate  Endpoint = "rds/job/run_private"
	JobShareResults Endpoint = "rds/job/share_results"
	JobGetLogs     Endpoint = "rds/job/get_logs"
	JobDelete      Endpoint = "rds/job/delete"

	Health Endpoint = "rds/health"
)

// Endpoint is a local alias of rpc.Endpoint so the constants above read
// as this package's own vocabulary.
type Endpoint = rpc.Endpoint
