package poller

var foreignBackend = BackendEpoll

func backends() []Backend { return []Backend{BackendSelect, BackendKqueue} }
