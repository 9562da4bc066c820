package repo

import "time"

// nowUTC подменяется в тестах.
var nowUTC = func() time.Time { return time.Now().UTC() }
