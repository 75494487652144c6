package inmemory_local_hashes

import (
	"github.com/horockey/go-toolbox/prometheus_helpers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	handleTimeHist      prometheus.Histogram
	getRequestsCnt      prometheus.Counter
	setRequestsCnt      prometheus.Counter
	delRequestsCnt      prometheus.Counter
	successProcessCnt   prometheus.Counter
	errProcessCnt       prometheus.Counter
	repoSizeKeysGauge   prometheus.GaugeFunc
	repoSizeFieldsGauge prometheus.GaugeFunc
}

func newMetrics(repo *inmemoryLocalHashes) *metrics {
	const ss = "inmemory_local_hashes"

	return &metrics{
		handleTimeHist: prometheus.NewHistogram(*prometheus_helpers.NewHistOpts(
			"handle_time_hist",
			prometheus_helpers.HistOptsWithSubsystem(ss),
			prometheus_helpers.HistOptsWithHelp("Handle time distribution"),
		)),
		getRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "get_requests_cnt",
			Subsystem: ss,
			Help:      "Count of incoming read requests",
		}),
		setRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "set_requests_cnt",
			Subsystem: ss,
			Help:      "Count of incoming set requests",
		}),
		delRequestsCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "del_requests_cnt",
			Subsystem: ss,
			Help:      "Count of incoming delete requests",
		}),
		successProcessCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "success_responses_cnt",
			Subsystem: ss,
			Help:      "Count of successfully finished processes",
		}),
		errProcessCnt: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "err_processes_cnt",
			Subsystem: ss,
			Help:      "Count of processes finished with non-nil error",
		}),
		repoSizeKeysGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:      "repo_size_keys_gauge",
			Subsystem: ss,
			Help:      "actual count of hashes in repo",
		}, func() float64 {
			repo.mu.RLock()
			defer repo.mu.RUnlock()
			return float64(len(repo.storage))
		}),
		repoSizeFieldsGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:      "repo_size_fields_gauge",
			Subsystem: ss,
			Help:      "actual count of fields of all hashes in repo",
		}, func() float64 {
			repo.mu.RLock()
			defer repo.mu.RUnlock()
			cnt := 0
			for _, h := range repo.storage {
				cnt += len(h)
			}
			return float64(cnt)
		}),
	}
}

func (m *metrics) list() []prometheus.Collector {
	return []prometheus.Collector{
		m.handleTimeHist,
		m.getRequestsCnt,
		m.setRequestsCnt,
		m.delRequestsCnt,
		m.successProcessCnt,
		m.errProcessCnt,
		m.repoSizeKeysGauge,
		m.repoSizeFieldsGauge,
	}
}
