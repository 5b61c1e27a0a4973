package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RoutePageID is the public page route pattern.
	RoutePageID = "/page/{id}"

	// RoutePages is the pages admin route.
	RoutePages = "/pages"
	// RouteContents is the contents admin route.
	RouteContents = "/contents"
	// RouteNavigations is the navigations admin route.
	RouteNavigations = "/navigations"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteEvents is the event log admin route.
	RouteEvents = "/events"
	// RouteProfile is the profile admin route.
	RouteProfile = "/profile"

	// RoutePagesID is the pages ID route pattern.
	RoutePagesID = RoutePages + RouteParamID
	// RouteContentsID is the contents ID route pattern.
	RouteContentsID = RouteContents + RouteParamID
	// RouteNavigationsID is the navigations ID route pattern.
	RouteNavigationsID = RouteNavigations + RouteParamID
	// RouteUsersID is the users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID
)

// Redirect target URLs.
const (
	redirectAdmin       = "/admin"
	redirectLogin       = "/login"
	redirectRegister    = "/register"
	redirectPages       = "/admin/pages"
	redirectContents    = "/admin/contents"
	redirectNavigations = "/admin/navigations"
	redirectUsers       = "/admin/users"
	redirectProfile     = "/admin/profile"
)

// adminPerPage is the page size for admin list views.
const adminPerPage = 20
