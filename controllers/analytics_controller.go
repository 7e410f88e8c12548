package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/mzportal/utils"
)

// AnalyticsController serves the admin dashboard figures. The numbers are
// static sample data until real traffic aggregation exists.
type AnalyticsController struct{}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController() *AnalyticsController { return &AnalyticsController{} }

type chartPoint struct {
	Name      string `json:"name"`
	Visitors  int    `json:"visitors"`
	PageViews int    `json:"pageViews"`
}

type recentVisitor struct {
	ID     int    `json:"id"`
	User   string `json:"user"`
	Page   string `json:"page"`
	Time   string `json:"time"`
	Status string `json:"status"`
}

// GetAnalytics returns chart data, recent visitors and headline stats.
func (a *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"chartData": []chartPoint{
			{Name: "Mon", Visitors: 4000, PageViews: 2400},
			{Name: "Tue", Visitors: 3000, PageViews: 1398},
			{Name: "Wed", Visitors: 2000, PageViews: 9800},
			{Name: "Thu", Visitors: 2780, PageViews: 3908},
			{Name: "Fri", Visitors: 1890, PageViews: 4800},
			{Name: "Sat", Visitors: 2390, PageViews: 3800},
			{Name: "Sun", Visitors: 3490, PageViews: 4300},
		},
		"recentVisitors": []recentVisitor{
			{ID: 1, User: "User_123", Page: "/home", Time: "2 mins ago", Status: "Active"},
			{ID: 2, User: "Guest_456", Page: "/board", Time: "5 mins ago", Status: "Idle"},
			{ID: 3, User: "User_789", Page: "/video", Time: "12 mins ago", Status: "Active"},
			{ID: 4, User: "Guest_101", Page: "/home", Time: "15 mins ago", Status: "Offline"},
			{ID: 5, User: "User_202", Page: "/admin", Time: "25 mins ago", Status: "Active"},
		},
		"stats": gin.H{
			"totalVisitors": 12345,
			"pageViews":     45678,
			"bannerClicks":  2345,
			"activeUsers":   573,
		},
	})
}
