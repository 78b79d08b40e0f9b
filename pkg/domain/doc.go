package domain

// domain package contains the Domain Models and Interfaces for the SparkTest backend.
//
// `domain/sparktest` package exposes the root object of the application.
// Entrypoints (the API server and loops) instantiate it and reach every entity through it.
//
// `domain/ENTITY.go` has the entity types and functions on them.
// For example, `domain/run.go` contains the `Run` entity and its status machine.
//
// `domain/ENTITY` directory contains the "physical" representation of the entity,
// the RDB or Kubernetes(k8s).
// For example, `domain/run/db` is the database expression of runs,
// and `domain/run/k8s` is the Kubernetes Job which executes a run.
//
// `domain/ENTITY/interface.go` exposes the client interface to handle the entity in DB/k8s.
//
// # Entities
//
// - `executor`: a reusable runner template (image, default command, accepted file types).
//
// - `definition`: a test to be run. An image and commands, labeled.
// Definitions can be synced from git repositories (the "sync loop").
//
// - `run`: an execution of a definition as a Kubernetes Job.
// A run is created as running by the API, or as pending by a suite run.
// Pending runs are launched by the "launch loop", and running runs are watched by the "monitor loop".
//
// - `suite`: an ordered group of definitions, executed in parallel or sequentially.
//
// And others:
//
// - `schema`: the version of the database schema.
//
// - `loop`: names of recurring tasks. Implementation of loops is in `cmd/loops/tasks/`.
