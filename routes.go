package portal

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) setupRoutes() {
	e := a.Echo

	assets := mustSub(EmbeddedAssets, "embedded")
	e.StaticFS("/assets", assets)
	e.Static("/public", a.staticDir)
	e.FileFS("/favicon.svg", "favicon.svg", assets)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public site
	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/news/", a.handleNewsList)
	e.GET("/news/:id/", a.handleNewsDetail)
	e.GET("/services/", a.handleServices)
	e.GET("/resources/", a.handleResources)
	e.GET("/resources/:id/download/", a.handleResourceDownload)
	e.GET("/gallery/", a.handleGallery)
	e.GET("/hotlines/", a.handleHotlines)
	e.GET("/report/", a.handleReportForm)
	e.POST("/report/", a.handleReportSubmit)
	e.GET("/:slug/", a.handlePage)

	// Admin sign-in
	e.GET("/admin/login/", a.handleLoginForm)
	e.POST("/admin/login/", a.handleLogin)
	e.POST("/admin/logout/", handleLogout)

	g := e.Group("/admin", requireAdmin)
	g.GET("/", a.handleDashboard)

	g.GET("/news/", a.handleAdminNewsList)
	g.GET("/news/new/", a.handleAdminNewsNew)
	g.POST("/news/", a.handleAdminNewsCreate)
	g.GET("/news/:id/", a.handleAdminNewsEdit)
	g.POST("/news/:id/", a.handleAdminNewsUpdate)
	g.POST("/news/:id/status/", a.handleAdminNewsStatus)
	g.POST("/news/:id/delete/", a.handleAdminNewsDelete)

	g.GET("/services/", a.handleAdminServiceList)
	g.GET("/services/new/", a.handleAdminServiceNew)
	g.POST("/services/", a.handleAdminServiceCreate)
	g.GET("/services/:id/", a.handleAdminServiceEdit)
	g.POST("/services/:id/", a.handleAdminServiceUpdate)
	g.POST("/services/:id/status/", a.handleAdminServiceStatus)
	g.POST("/services/:id/delete/", a.handleAdminServiceDelete)

	g.GET("/pages/", a.handleAdminPageList)
	g.GET("/pages/new/", a.handleAdminPageNew)
	g.POST("/pages/", a.handleAdminPageCreate)
	g.GET("/pages/:id/", a.handleAdminPageEdit)
	g.POST("/pages/:id/", a.handleAdminPageUpdate)
	g.POST("/pages/:id/delete/", a.handleAdminPageDelete)
	g.GET("/pages/:id/sections/new/", a.handleAdminSectionNew)
	g.POST("/pages/:id/sections/", a.handleAdminSectionCreate)
	g.GET("/sections/:id/", a.handleAdminSectionEdit)
	g.POST("/sections/:id/", a.handleAdminSectionUpdate)
	g.POST("/sections/:id/move/", a.handleAdminSectionMove)
	g.POST("/sections/:id/delete/", a.handleAdminSectionDelete)

	g.GET("/resources/", a.handleAdminResourceList)
	g.GET("/resources/new/", a.handleAdminResourceNew)
	g.POST("/resources/", a.handleAdminResourceCreate)
	g.GET("/resources/:id/", a.handleAdminResourceEdit)
	g.POST("/resources/:id/", a.handleAdminResourceUpdate)
	g.POST("/resources/:id/delete/", a.handleAdminResourceDelete)

	g.GET("/gallery/", a.handleAdminGalleryList)
	g.GET("/gallery/new/", a.handleAdminGalleryNew)
	g.POST("/gallery/", a.handleAdminGalleryCreate)
	g.GET("/gallery/bulk/", a.handleAdminGalleryBulkForm)
	g.POST("/gallery/bulk/", a.handleAdminGalleryBulkUpload)
	g.GET("/gallery/:id/", a.handleAdminGalleryEdit)
	g.POST("/gallery/:id/", a.handleAdminGalleryUpdate)
	g.POST("/gallery/:id/featured/", a.handleAdminGalleryFeatured)
	g.POST("/gallery/:id/status/", a.handleAdminGalleryStatus)
	g.POST("/gallery/:id/delete/", a.handleAdminGalleryDelete)

	g.GET("/incidents/", a.handleAdminIncidentList)
	g.GET("/incidents/:id/", a.handleAdminIncidentDetail)
	g.POST("/incidents/:id/", a.handleAdminIncidentUpdate)
	g.POST("/incidents/:id/delete/", a.handleAdminIncidentDelete)

	g.GET("/hotlines/", a.handleAdminHotlineList)
	g.GET("/hotlines/new/", a.handleAdminHotlineNew)
	g.POST("/hotlines/", a.handleAdminHotlineCreate)
	g.GET("/hotlines/:id/", a.handleAdminHotlineEdit)
	g.POST("/hotlines/:id/", a.handleAdminHotlineUpdate)
	g.POST("/hotlines/:id/delete/", a.handleAdminHotlineDelete)

	g.GET("/social/", a.handleAdminSocialList)
	g.GET("/social/new/", a.handleAdminSocialNew)
	g.POST("/social/", a.handleAdminSocialCreate)
	g.GET("/social/:id/", a.handleAdminSocialEdit)
	g.POST("/social/:id/", a.handleAdminSocialUpdate)
	g.POST("/social/:id/delete/", a.handleAdminSocialDelete)

	g.GET("/images/", a.handleImageList)
	g.POST("/images/upload/", a.handleImageUpload)
	g.POST("/images/:filename/delete/", a.handleImageDelete)

	g.GET("/database/", a.handleDatabase)
	g.POST("/database/", a.handleDatabaseSwitch)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

func (a *App) handleRobots(c echo.Context) error {
	sitemap := strings.TrimRight(BuildURL(a.Config.URL), "/") + "/sitemap.xml"
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\n\nSitemap: "+sitemap+"\n")
}
