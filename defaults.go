package elsewhere

var DefaultSocialNetworks = []NetworkDefault{
	{Name: "Delicious", Url: "http://delicious.com/%s/", Icon: "delicious.png"},
	{Name: "Digg", Url: "http://digg.com/users/%s/", Icon: "digg.png"},
	{Name: "Facebook", Url: "http://www.facebook.com/%s", Icon: "facebook.png"},
	{Name: "Flickr", Url: "http://www.flickr.com/photos/%s/", Icon: "flickr.png"},
	{Name: "GitHub", Url: "https://github.com/%s", Icon: "github.png"},
	{Name: "Last.fm", Url: "http://www.last.fm/user/%s", Icon: "lastfm.png"},
	{Name: "LinkedIn", Url: "http://www.linkedin.com/in/%s", Icon: "linkedin.png"},
	{Name: "MySpace", Url: "http://www.myspace.com/%s", Icon: "myspace.png"},
	{Name: "Reddit", Url: "http://www.reddit.com/user/%s/", Icon: "reddit.png"},
	{Name: "Tumblr", Url: "http://%s.tumblr.com/", Icon: "tumblr.png"},
	{Name: "Twitter", Url: "https://twitter.com/%s", Icon: "twitter.png", Identifier: "twitter"},
	{Name: "Vimeo", Url: "http://vimeo.com/%s", Icon: "vimeo.png"},
	{Name: "YouTube", Url: "http://www.youtube.com/user/%s", Icon: "youtube.png"},
}

var DefaultInstantMessengers = []NetworkDefault{
	{Name: "AIM", Url: "aim:goim?screenname=%s", Icon: "aim.png"},
	{Name: "Google Talk", Url: "xmpp:%s", Icon: "gtalk.png"},
	{Name: "ICQ", Url: "http://www.icq.com/people/%s", Icon: "icq.png"},
	{Name: "Jabber", Url: "xmpp:%s", Icon: "jabber.png"},
	{Name: "MSN", Url: "msnim:chat?contact=%s", Icon: "msn.png"},
	{Name: "Skype", Url: "skype:%s?call", Icon: "skype.png"},
	{Name: "Yahoo", Url: "ymsgr:sendIM?%s", Icon: "yahoo.png"},
}
