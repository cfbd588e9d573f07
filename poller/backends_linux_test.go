package poller

// 各平台上可用的后端，以及另一平台独有的后端
var foreignBackend = BackendKqueue

func backends() []Backend { return []Backend{BackendSelect, BackendEpoll} }
