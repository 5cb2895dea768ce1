// Command inkwell runs the bookstore API and its maintenance tasks.
//
//	inkwell serve          # start server (migrates on boot)
//	inkwell serve -p 9000
//	inkwell migrate        # create tables / collection indexes
//	inkwell seed           # admin account + starter catalogue
//	inkwell route:list     # list API routes
//
// Configuration comes from config.json, .env and the environment; see
// config.Load.
package main
