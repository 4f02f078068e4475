package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_success_total",
		Help: "Total successful registrations",
	})

	BlogsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blogs_created_total",
		Help: "Total blogs successfully created",
	})

	CommentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comments_created_total",
		Help: "Total comments successfully created",
	})

	NotificationsFanned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_fanned_total",
		Help: "Total notifications created by fan-out, by kind",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(BlogsCreated)
	prometheus.MustRegister(CommentsCreated)
	prometheus.MustRegister(NotificationsFanned)
}
