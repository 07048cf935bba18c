package wirehair

import "github.com/sirupsen/logrus"

// log is the package-level structured logger, following the bpfs-defs
// convention of a single package logger rather than one threaded through
// every call. It is used only outside the hot path: codec setup/teardown
// and setup-time BadInput/Oom. Peel, Compress, Triangle and Substitute never
// touch it.
var log = logrus.WithField("component", "wirehair")
