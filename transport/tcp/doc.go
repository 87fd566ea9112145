// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp opens the listening socket of the session server on all
// interfaces. The runtime sets SO_REUSEADDR on unix listeners, so a
// stopped server can rebind its port while old sockets sit in TIME_WAIT.
package tcp
